package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequestOffsetAndLimit(t *testing.T) {
	req := PageRequest{Page: 2, PageSize: 20}
	assert.Equal(t, 40, req.Offset())
	assert.Equal(t, 20, req.Limit())
}

func TestPageRequestFirstPageHasZeroOffset(t *testing.T) {
	req := PageRequest{Page: 0, PageSize: 20}
	assert.Equal(t, 0, req.Offset())
}

func TestNewPageComputesTotalPagesRoundingUp(t *testing.T) {
	page := NewPage([]int{1, 2, 3}, PageRequest{Page: 0, PageSize: 2}, 5)
	assert.Equal(t, 3, page.TotalPages)
}

func TestNewPageZeroPageSizeYieldsZeroTotalPages(t *testing.T) {
	page := NewPage([]int{}, PageRequest{Page: 0, PageSize: 0}, 5)
	assert.Equal(t, 0, page.TotalPages)
}

func TestPageHasNext(t *testing.T) {
	page := NewPage([]int{1, 2}, PageRequest{Page: 0, PageSize: 2}, 5)
	assert.True(t, page.HasNext())

	lastPage := NewPage([]int{5}, PageRequest{Page: 2, PageSize: 2}, 5)
	assert.False(t, lastPage.HasNext())
}
