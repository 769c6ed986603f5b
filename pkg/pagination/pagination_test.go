// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/cinemadb/pkg/pagination"
)

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, pagination.Offset(1, 10))
	assert.Equal(t, 0, pagination.Offset(0, 10))
	assert.Equal(t, 5, pagination.Offset(2, 5))
	assert.Equal(t, 50, pagination.Offset(6, 10))
	assert.Positive(t, pagination.Offset(pagination.MaxPage, pagination.MaxPageSize))
}

func TestNewPage(t *testing.T) {
	page := pagination.NewPage([]string{"a", "b"}, 1, 2, 3)
	assert.True(t, page.HasNextPage)

	last := pagination.NewPage([]string{"c"}, 2, 2, 3)
	assert.False(t, last.HasNextPage)

	empty := pagination.NewPage[string](nil, 1, 10, 0)
	assert.NotNil(t, empty.Items)
	assert.False(t, empty.HasNextPage)
}
