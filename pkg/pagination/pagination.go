package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	mcperrors "github.com/ajitpratap0/mcp-server-go/pkg/errors"
	"github.com/ajitpratap0/mcp-server-go/pkg/protocol"
)

const (
	// DefaultLimit is the page size used when the client does not specify one
	DefaultLimit = 50

	// MaxLimit is the maximum allowed page size
	MaxLimit = 200

	cursorPrefix = "o:"
)

// EncodeCursor produces an opaque cursor for the given offset.
func EncodeCursor(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(cursorPrefix + strconv.Itoa(offset)))
}

// DecodeCursor recovers the offset from an opaque cursor. An empty cursor
// decodes to offset zero.
func DecodeCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}

	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, mcperrors.NewErrorf(mcperrors.CodeInvalidCursor,
			mcperrors.CategoryValidation, mcperrors.SeverityError,
			"invalid pagination cursor %q", cursor)
	}

	payload, ok := strings.CutPrefix(string(raw), cursorPrefix)
	if !ok {
		return 0, mcperrors.NewErrorf(mcperrors.CodeInvalidCursor,
			mcperrors.CategoryValidation, mcperrors.SeverityError,
			"invalid pagination cursor %q", cursor)
	}

	offset, err := strconv.Atoi(payload)
	if err != nil || offset < 0 {
		return 0, mcperrors.NewErrorf(mcperrors.CodeInvalidCursor,
			mcperrors.CategoryValidation, mcperrors.SeverityError,
			"invalid pagination cursor %q", cursor)
	}
	return offset, nil
}

// normalizeLimit validates the client-supplied limit and applies defaults.
func normalizeLimit(limit int) (int, error) {
	switch {
	case limit == 0:
		return DefaultLimit, nil
	case limit < 0 || limit > MaxLimit:
		return 0, mcperrors.NewErrorf(mcperrors.CodeInvalidLimit,
			mcperrors.CategoryValidation, mcperrors.SeverityError,
			"pagination limit must be in (0, %d], got %d", MaxLimit, limit)
	default:
		return limit, nil
	}
}

// Page slices one page out of items according to the request parameters
// and returns the page together with the pagination result to embed in the
// response.
func Page[T any](items []T, params protocol.PaginationParams) ([]T, protocol.PaginationResult, error) {
	offset, err := DecodeCursor(params.Cursor)
	if err != nil {
		return nil, protocol.PaginationResult{}, err
	}

	limit, err := normalizeLimit(params.Limit)
	if err != nil {
		return nil, protocol.PaginationResult{}, err
	}

	if offset > len(items) {
		return nil, protocol.PaginationResult{}, mcperrors.NewErrorf(
			mcperrors.CodeInvalidCursor, mcperrors.CategoryValidation, mcperrors.SeverityError,
			"pagination cursor beyond end of list (offset %d of %d)", offset, len(items))
	}

	end := offset + limit
	if end > len(items) {
		end = len(items)
	}

	var result protocol.PaginationResult
	if end < len(items) {
		result.NextCursor = EncodeCursor(end)
		result.HasMore = true
	}

	page := make([]T, end-offset)
	copy(page, items[offset:end])
	return page, result, nil
}

// Describe renders a readable description of a page for diagnostics.
func Describe(result protocol.PaginationResult) string {
	if !result.HasMore {
		return "final page"
	}
	return fmt.Sprintf("more pages after cursor %s", result.NextCursor)
}
