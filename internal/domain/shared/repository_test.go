package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginated(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		page      int
		pageSize  int
		wantPages int
	}{
		{name: "exact fit", total: 40, page: 1, pageSize: 20, wantPages: 2},
		{name: "partial last page", total: 42, page: 1, pageSize: 20, wantPages: 3},
		{name: "empty", total: 0, page: 1, pageSize: 20, wantPages: 0},
		{name: "fetch-all page size zero", total: 3, page: 1, pageSize: 0, wantPages: 1},
		{name: "fetch-all with no rows", total: 0, page: 1, pageSize: 0, wantPages: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewPaginated([]string{}, tt.total, tt.page, tt.pageSize)
			assert.Equal(t, tt.wantPages, result.TotalPages)
			assert.Equal(t, tt.total, result.Total)
			assert.Equal(t, tt.page, result.Page)
			assert.Equal(t, tt.pageSize, result.PageSize)
		})
	}
}
