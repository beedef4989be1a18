package paginate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wordbookapp/wordbook/pkg/paginate"
)

func TestPaginate(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		p := paginate.Paginate(0, 10, 5)
		assert.Equal(t, paginate.Page{}, p)
	})

	t.Run("ClampsPastEnd", func(t *testing.T) {
		p := paginate.Paginate(23, 10, 99)
		assert.Equal(t, 3, p.TotalPages)
		assert.Equal(t, 2, p.SafeIndex)
		assert.Equal(t, 20, p.Start)
		assert.Equal(t, 23, p.End)
	})

	t.Run("ClampsNegative", func(t *testing.T) {
		p := paginate.Paginate(23, 10, -4)
		assert.Equal(t, 0, p.SafeIndex)
		assert.Equal(t, 0, p.Start)
		assert.Equal(t, 10, p.End)
	})

	t.Run("ExactMultiple", func(t *testing.T) {
		p := paginate.Paginate(20, 10, 1)
		assert.Equal(t, 2, p.TotalPages)
		assert.Equal(t, 1, p.SafeIndex)
		assert.Equal(t, 10, p.Start)
		assert.Equal(t, 20, p.End)
	})

	t.Run("TinyPageSize", func(t *testing.T) {
		p := paginate.Paginate(3, 0, 0)
		assert.Equal(t, 3, p.TotalPages, "page size below 1 behaves as 1")
	})
}

func TestSlice(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}

	page, p := paginate.Slice(items, 10, 99)
	assert.Equal(t, items[20:23], page)
	assert.Equal(t, 2, p.SafeIndex)

	empty, p := paginate.Slice([]int{}, 10, 5)
	assert.Empty(t, empty)
	assert.Zero(t, p.TotalPages)
}
