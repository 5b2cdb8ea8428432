package httpserver

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestSearch_UnavailableWithoutES(t *testing.T) {
	env := newTestEnv(t)
	h := &SearchHandler{ES: nil, Index: "products"}

	_, c := env.doJSONRequest(http.MethodGet, "/api/v1/search?q=shirt", nil)

	err := h.Search(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusServiceUnavailable, he.Code)
}
