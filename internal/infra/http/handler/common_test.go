package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantPage    int
		wantPerPage int
	}{
		{
			name:        "defaults when absent",
			url:         "/api/v1/admin/users",
			wantPage:    1,
			wantPerPage: 20,
		},
		{
			name:        "explicit values",
			url:         "/api/v1/admin/users?page=3&per_page=50",
			wantPage:    3,
			wantPerPage: 50,
		},
		{
			name:        "per_page capped at maximum",
			url:         "/api/v1/admin/users?per_page=5000",
			wantPage:    1,
			wantPerPage: 100,
		},
		{
			name:        "garbage falls back to defaults",
			url:         "/api/v1/admin/users?page=abc&per_page=-1",
			wantPage:    1,
			wantPerPage: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			p := parsePagination(r)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPerPage, p.PerPage)
		})
	}
}

func TestParseQueryArray(t *testing.T) {
	assert.Nil(t, parseQueryArray(""))
	assert.Equal(t, []string{"user.create"}, parseQueryArray("user.create"))
	assert.Equal(t, []string{"user.create", "user.delete"}, parseQueryArray("user.create,user.delete"))
}

func TestNewPaginationLinks(t *testing.T) {
	t.Run("nil when no pages", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/v1/admin/audit", nil)
		assert.Nil(t, NewPaginationLinks(r, 1, 20, 0))
	})

	t.Run("middle page has prev and next", func(t *testing.T) {
		r := httptest.NewRequest("GET", "http://api.example.com/api/v1/admin/audit?actions=user.create", nil)
		links := NewPaginationLinks(r, 2, 20, 3)
		assert.NotNil(t, links)
		assert.Contains(t, links.Self, "page=2")
		assert.Contains(t, links.Prev, "page=1")
		assert.Contains(t, links.Next, "page=3")
		assert.Contains(t, links.Last, "page=3")
		// Existing filters survive the rewrite.
		assert.Contains(t, links.Next, "actions=user.create")
	})

	t.Run("first page has no prev", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/v1/admin/audit", nil)
		links := NewPaginationLinks(r, 1, 20, 2)
		assert.NotNil(t, links)
		assert.Empty(t, links.Prev)
		assert.NotEmpty(t, links.Next)
	})

	t.Run("forwarded headers set scheme and host", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/v1/admin/audit", nil)
		r.Header.Set("X-Forwarded-Proto", "https")
		r.Header.Set("X-Forwarded-Host", "hours.example.com")
		links := NewPaginationLinks(r, 1, 20, 1)
		assert.Contains(t, links.Self, "https://hours.example.com/")
	})
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{
			name:   "remote addr with port",
			remote: "192.0.2.10:54321",
			want:   "192.0.2.10",
		},
		{
			name:   "x-forwarded-for single",
			remote: "10.0.0.1:1234",
			xff:    "203.0.113.7",
			want:   "203.0.113.7",
		},
		{
			name:   "x-forwarded-for chain takes first",
			remote: "10.0.0.1:1234",
			xff:    "203.0.113.7, 10.0.0.2, 10.0.0.3",
			want:   "203.0.113.7",
		},
		{
			name:   "x-real-ip fallback",
			remote: "10.0.0.1:1234",
			xri:    "198.51.100.4",
			want:   "198.51.100.4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			assert.Equal(t, tt.want, getClientIP(r))
		})
	}
}
