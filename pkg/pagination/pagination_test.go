package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		perPage     int
		wantPage    int
		wantPerPage int
	}{
		{"defaults", 0, 0, 1, 20},
		{"negative page", -3, 10, 1, 10},
		{"capped per page", 2, 500, 2, 100},
		{"normal", 4, 25, 4, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.page, tt.perPage)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPerPage, p.PerPage)
		})
	}
}

func TestPagination_Offset(t *testing.T) {
	p := New(3, 20)
	assert.Equal(t, 40, p.Offset())
	assert.Equal(t, 20, p.Limit())
}

func TestSortOption_Parse(t *testing.T) {
	allowed := map[string]string{
		"email":      "email",
		"created_at": "created_at",
		"last_login": "last_login_at",
	}

	tests := []struct {
		name    string
		sortStr string
		wantSQL string
	}{
		{"single ascending", "email", "email ASC"},
		{"single descending", "-created_at", "created_at DESC"},
		{"explicit plus", "+email", "email ASC"},
		{"multiple", "-created_at,email", "created_at DESC, email ASC"},
		{"field renamed to column", "last_login", "last_login_at ASC"},
		{"unknown fields dropped", "password_hash,email", "email ASC"},
		{"all unknown yields empty", "password_hash", ""},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSortOption(allowed).Parse(tt.sortStr)
			assert.Equal(t, tt.wantSQL, s.SQL())
		})
	}
}

func TestSortOption_SQLWithDefault(t *testing.T) {
	allowed := map[string]string{"email": "email"}

	s := NewSortOption(allowed).Parse("")
	assert.True(t, s.IsEmpty())
	assert.Equal(t, "created_at DESC", s.SQLWithDefault("created_at DESC"))

	s = NewSortOption(allowed).Parse("-email")
	assert.Equal(t, "email DESC", s.SQLWithDefault("created_at DESC"))
}

func TestNewResult(t *testing.T) {
	res := NewResult([]string{"a", "b"}, 41, New(1, 20))
	assert.Equal(t, int64(41), res.Total)
	assert.Equal(t, 3, res.TotalPages)

	// nil data comes back as an empty slice, not null.
	empty := NewResult[string](nil, 0, New(1, 20))
	assert.NotNil(t, empty.Data)
	assert.Len(t, empty.Data, 0)
	assert.Equal(t, 0, empty.TotalPages)
}
