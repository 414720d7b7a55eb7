package pagination_test

import (
	"testing"

	"github.com/hostelhq/hostel_ledger/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		wantPage   int
		wantSize   int
	}{
		{"defaults", 0, 0, 1, pagination.DefaultPageSize},
		{"negative page", -3, 10, 1, 10},
		{"oversized", 2, 10000, 2, pagination.MaxPageSize},
		{"normal", 3, 25, 3, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pagination.Clamp(tt.page, tt.size)
			assert.Equal(t, tt.wantPage, p.Number)
			assert.Equal(t, tt.wantSize, p.Size)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, pagination.Clamp(1, 20).Offset())
	assert.Equal(t, 40, pagination.Clamp(3, 20).Offset())
}
