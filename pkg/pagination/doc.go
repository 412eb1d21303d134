// Package pagination implements the opaque-cursor paging used by
// tools/list, resources/list, and prompts/list. Cursors encode a plain
// offset; clients must treat them as opaque tokens.
package pagination
