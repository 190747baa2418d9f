package pagination

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duetchat/messenger-service/internal/domain"
)

func TestWindow(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantOffset int
		wantFetch  int
	}{
		{name: "first page", page: 1, limit: 20, wantOffset: 0, wantFetch: 20},
		{name: "second page", page: 2, limit: 20, wantOffset: 20, wantFetch: 40},
		{name: "deep page", page: 3, limit: 10, wantOffset: 20, wantFetch: 30},
		{name: "limit one", page: 2, limit: 1, wantOffset: 1, wantFetch: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, fetch, err := Window(tt.page, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantFetch, fetch)
		})
	}
}

func TestWindowRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		limit int
	}{
		{name: "zero page", page: 0, limit: 20},
		{name: "negative page", page: -3, limit: 20},
		{name: "zero limit", page: 1, limit: 0},
		{name: "negative limit", page: 1, limit: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Window(tt.page, tt.limit)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
		})
	}
}

func TestSlice(t *testing.T) {
	rows := []int{5, 4, 3, 2, 1}

	assert.Equal(t, []int{5, 4}, Slice(rows, 0, 2))
	assert.Equal(t, []int{3, 2}, Slice(rows, 2, 2))
	assert.Equal(t, []int{1}, Slice(rows, 4, 2))
	assert.Empty(t, Slice(rows, 5, 2))
	assert.Empty(t, Slice(rows, 100, 2))
	assert.Empty(t, Slice([]int{}, 0, 2))
}
