package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func pager(total int, calls *int) func(ctx context.Context, offset, limit int) ([]int, error) {
	return func(ctx context.Context, offset, limit int) ([]int, error) {
		*calls++
		var out []int
		for i := offset; i < offset+limit && i < total; i++ {
			out = append(out, i)
		}
		return out, nil
	}
}

func TestFetchAll(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		pageSize  int
		maxRows   int
		wantLen   int
		wantCalls int
	}{
		{"empty table", 0, 1000, 10000, 0, 1},
		{"short first page", 5, 1000, 10000, 5, 1},
		{"exact page boundary", 2000, 1000, 10000, 2000, 3},
		{"partial last page", 2500, 1000, 10000, 2500, 3},
		{"capped", 12000, 1000, 10000, 10000, 10},
		{"cap mid page truncates", 50, 20, 30, 30, 2},
		{"zero cap is unbounded", 45, 10, 0, 45, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			got, err := FetchAll(context.Background(), tt.pageSize, tt.maxRows, pager(tt.total, &calls))
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
			assert.Equal(t, tt.wantCalls, calls)
			for i, v := range got {
				require.Equal(t, i, v)
			}
		})
	}
}

func TestFetchAll_pageErrorKeepsPartial(t *testing.T) {
	boom := errors.New("timeout")
	fetch := func(ctx context.Context, offset, limit int) ([]int, error) {
		if offset >= 20 {
			return nil, boom
		}
		return make([]int, limit), nil
	}
	got, err := FetchAll(context.Background(), 10, 100, fetch)
	require.ErrorIs(t, err, boom)
	assert.Len(t, got, 20)
	assert.Contains(t, err.Error(), "fetch rows 20-29")
}

func TestFetchAll_invalidPageSize(t *testing.T) {
	_, err := FetchAll(context.Background(), 0, 10, func(ctx context.Context, offset, limit int) ([]int, error) {
		t.Fatal("fetch must not be called")
		return nil, nil
	})
	assert.Error(t, err)
}

func TestFetchAll_canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	_, err := FetchAll(ctx, 10, 100, pager(100, &calls))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestFetchAll_properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		total := rapid.IntRange(0, 500).Draw(rt, "total")
		pageSize := rapid.IntRange(1, 60).Draw(rt, "pageSize")
		maxRows := rapid.IntRange(0, 400).Draw(rt, "maxRows")

		calls := 0
		got, err := FetchAll(context.Background(), pageSize, maxRows, pager(total, &calls))
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		want := total
		if maxRows > 0 {
			want = min(total, maxRows)
		}
		if len(got) != want {
			rt.Fatalf("got %d rows, want %d", len(got), want)
		}
		for i, v := range got {
			if v != i {
				rt.Fatalf("row %d out of order: %d", i, v)
			}
		}
		if maxCalls := want/pageSize + 1; calls > maxCalls {
			rt.Fatalf("made %d page requests, at most %d needed", calls, maxCalls)
		}
	})
}
