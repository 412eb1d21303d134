package pagination

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcperrors "github.com/ajitpratap0/mcp-server-go/pkg/errors"
	"github.com/ajitpratap0/mcp-server-go/pkg/protocol"
)

func TestCursorRoundTrip(t *testing.T) {
	for _, offset := range []int{0, 1, 50, 12345} {
		cursor := EncodeCursor(offset)
		got, err := DecodeCursor(cursor)
		require.NoError(t, err)
		assert.Equal(t, offset, got)
	}
}

func TestEmptyCursorIsOffsetZero(t *testing.T) {
	offset, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Zero(t, offset)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	for _, cursor := range []string{"not base64!!", "bm9wZQ==", "bzotNQ=="} {
		_, err := DecodeCursor(cursor)
		require.Error(t, err, "cursor %q", cursor)
		assert.True(t, mcperrors.IsCode(err, mcperrors.CodeInvalidCursor))
	}
}

func items(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("item-%03d", i)
	}
	return out
}

func TestPageDefaults(t *testing.T) {
	page, result, err := Page(items(10), protocol.PaginationParams{})
	require.NoError(t, err)
	assert.Len(t, page, 10)
	assert.False(t, result.HasMore)
	assert.Empty(t, result.NextCursor)
}

func TestPageWalksTheWholeList(t *testing.T) {
	all := items(95)

	var got []string
	params := protocol.PaginationParams{Limit: 40}
	for {
		page, result, err := Page(all, params)
		require.NoError(t, err)
		got = append(got, page...)
		if !result.HasMore {
			break
		}
		params.Cursor = result.NextCursor
	}

	assert.Equal(t, all, got)
}

func TestPageLimitValidation(t *testing.T) {
	_, _, err := Page(items(5), protocol.PaginationParams{Limit: -1})
	require.Error(t, err)
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeInvalidLimit))

	_, _, err = Page(items(5), protocol.PaginationParams{Limit: MaxLimit + 1})
	require.Error(t, err)
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeInvalidLimit))
}

func TestPageCursorBeyondEnd(t *testing.T) {
	_, _, err := Page(items(3), protocol.PaginationParams{Cursor: EncodeCursor(10)})
	require.Error(t, err)
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeInvalidCursor))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "final page", Describe(protocol.PaginationResult{}))

	_, result, err := Page(items(10), protocol.PaginationParams{Limit: 4})
	require.NoError(t, err)
	assert.Equal(t, "more pages after cursor "+result.NextCursor, Describe(result))
}

func TestPageAtExactEnd(t *testing.T) {
	// A cursor pointing just past the last item yields an empty final page.
	page, result, err := Page(items(4), protocol.PaginationParams{Cursor: EncodeCursor(4)})
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.False(t, result.HasMore)
}
