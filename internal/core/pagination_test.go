package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageCount(t *testing.T) {
	cases := []struct {
		total int64
		size  int
		want  int
	}{
		{0, 6, 0},
		{1, 6, 1},
		{6, 6, 1},
		{7, 6, 2},
		{13, 6, 3},
		{12, 6, 2},
		{5, 0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PageCount(tc.total, tc.size), "PageCount(%d, %d)", tc.total, tc.size)
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 6))
	assert.Equal(t, 6, Offset(2, 6))
	assert.Equal(t, 54, Offset(10, 6))
	assert.Equal(t, 0, Offset(0, 6))
}

func TestSearchPattern(t *testing.T) {
	assert.Equal(t, "%%", SearchPattern(""))
	assert.Equal(t, "%lee%", SearchPattern("lee"))
}
