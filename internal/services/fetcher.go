package services

import (
	"context"
	"fmt"
)

// Defaults for aggregating a table through fixed-size range reads.
const (
	DefaultFetchPageSize = 1000
	DefaultFetchMaxRows  = 10000
)

// FetchAll requests pages of pageSize rows in order and concatenates them. It
// stops on an empty page, a short page, or once maxRows rows are gathered, in
// which case the result is truncated to maxRows. A maxRows of zero means no cap.
// On a page error the rows gathered so far are returned along with the error.
func FetchAll[T any](ctx context.Context, pageSize, maxRows int, fetchPage func(ctx context.Context, offset, limit int) ([]T, error)) ([]T, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", pageSize)
	}
	all := make([]T, 0)
	for offset := 0; ; offset += pageSize {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		page, err := fetchPage(ctx, offset, pageSize)
		if err != nil {
			return all, fmt.Errorf("fetch rows %d-%d: %w", offset, offset+pageSize-1, err)
		}
		if len(page) == 0 {
			break
		}
		all = append(all, page...)
		if maxRows > 0 && len(all) >= maxRows {
			all = all[:maxRows]
			break
		}
		if len(page) < pageSize {
			break
		}
	}
	return all, nil
}
