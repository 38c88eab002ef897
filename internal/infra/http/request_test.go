package http

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestPathParam(t *testing.T) {
	t.Run("chi route context", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/users/42", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", "42")
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

		assert.Equal(t, "42", PathParam(r, "id"))
	})

	t.Run("stdlib fallback", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/users/42", nil)
		r.SetPathValue("id", "42")

		assert.Equal(t, "42", PathParam(r, "id"))
	})

	t.Run("missing param is empty", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/users", nil)
		assert.Equal(t, "", PathParam(r, "id"))
	})
}
