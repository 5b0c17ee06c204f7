package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Pagination
		want Pagination
	}{
		{"defaults kept", Pagination{Page: 2, Limit: 10}, Pagination{Page: 2, Limit: 10}},
		{"zero page clamps to first", Pagination{Page: 0, Limit: 10}, Pagination{Page: 1, Limit: 10}},
		{"negative page clamps to first", Pagination{Page: -3, Limit: 10}, Pagination{Page: 1, Limit: 10}},
		{"zero limit clamps to one", Pagination{Page: 1, Limit: 0}, Pagination{Page: 1, Limit: 1}},
		{"oversized limit clamps to max", Pagination{Page: 1, Limit: 9999}, Pagination{Page: 1, Limit: 250}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Pagination{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 10, Pagination{Page: 2, Limit: 10}.Offset())
	assert.Equal(t, 0, Pagination{Page: 0, Limit: 10}.Offset())
	assert.Equal(t, 40, Pagination{Page: 5, Limit: 10}.Offset())
}
