// Package pagination turns 1-indexed page numbers into bounded range scans.
//
// The underlying store has no offset support, so a page read fetches the
// whole prefix (offset + limit rows) and the caller slices the tail off in
// memory. Cost therefore grows linearly with the page number; acceptable for
// shallow scrollback, a known limit for deep pages.
package pagination

import (
	"fmt"

	"github.com/duetchat/messenger-service/internal/domain"
)

// Window computes the in-memory offset and the number of rows to fetch for a
// page. This is the single validation point for page parameters: page and
// limit below 1 are rejected with ErrInvalidArgument.
func Window(page, limit int) (offset, fetch int, err error) {
	if page < 1 {
		return 0, 0, fmt.Errorf("page %d: %w", page, domain.ErrInvalidArgument)
	}
	if limit < 1 {
		return 0, 0, fmt.Errorf("limit %d: %w", limit, domain.ErrInvalidArgument)
	}
	offset = (page - 1) * limit
	return offset, offset + limit, nil
}

// Slice applies a window to an overfetched prefix.
func Slice[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}
