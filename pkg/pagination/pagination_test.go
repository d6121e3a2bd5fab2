package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==================== FromRequest ====================

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantPage    int
		wantPerPage int
	}{
		{"defaults when absent", "", 1, 20},
		{"explicit values", "page=3&per_page=50", 3, 50},
		{"zero page ignored", "page=0", 1, 20},
		{"negative page ignored", "page=-2", 1, 20},
		{"malformed page ignored", "page=abc", 1, 20},
		{"per_page over cap ignored", "per_page=500", 1, 20},
		{"per_page at cap accepted", "per_page=100", 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/movies?"+tt.query, nil)
			p := FromRequest(req)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPerPage, p.PerPage)
		})
	}
}

// ==================== NewResult ====================

func TestNewResult_ComputesPagesAndHasNext(t *testing.T) {
	r := NewResult([]string{"a", "b"}, 45, Params{Page: 1, PerPage: 20})

	assert.Equal(t, 45, r.TotalCount)
	assert.Equal(t, 3, r.TotalPages)
	assert.True(t, r.HasNext)
}

func TestNewResult_LastPageHasNoNext(t *testing.T) {
	r := NewResult([]string{"a"}, 45, Params{Page: 3, PerPage: 20})
	assert.False(t, r.HasNext)
}

func TestNewResult_ExactMultiple(t *testing.T) {
	r := NewResult([]string{"a"}, 40, Params{Page: 2, PerPage: 20})
	assert.Equal(t, 2, r.TotalPages)
	assert.False(t, r.HasNext)
}

func TestNewResult_NilDataMarshalsAsEmptyList(t *testing.T) {
	r := NewResult[string](nil, 0, DefaultParams())
	assert.NotNil(t, r.Data)
	assert.Empty(t, r.Data)
	assert.Equal(t, 0, r.TotalPages)
}
