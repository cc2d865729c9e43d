package request

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T {
	return &v
}

func TestQueryOptions_Pagination(t *testing.T) {
	t.Run("should use defaults for omitted values", func(t *testing.T) {
		page, limit := QueryOptions{}.Pagination(1, 10)

		assert.Equal(t, 1, page)
		assert.Equal(t, 10, limit)
	})

	t.Run("should keep an explicit zero", func(t *testing.T) {
		page, limit := QueryOptions{Page: ptr[uint](0), Limit: ptr[uint](0)}.Pagination(1, 10)

		assert.Equal(t, 0, page)
		assert.Equal(t, 0, limit)
	})

	t.Run("should clamp values beyond int range", func(t *testing.T) {
		page, limit := QueryOptions{Page: ptr(uint(math.MaxUint)), Limit: ptr[uint](5)}.Pagination(1, 10)

		assert.Equal(t, math.MaxInt, page)
		assert.Equal(t, 5, limit)
	})
}
