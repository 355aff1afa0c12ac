package jwtmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/rmoliveira/quotation-service/internal/service/token"
)

func doRequest(t *testing.T, authHeader string) error {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/quotations", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error {
		require.Equal(t, "admin", c.Get("admin"))
		return c.NoContent(http.StatusOK)
	}
	return RequireAdmin([]byte("test_secret"))(next)(c)
}

func TestRequireAdminMissingToken(t *testing.T) {
	err := doRequest(t, "")
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAdminInvalidToken(t *testing.T) {
	err := doRequest(t, "Bearer not-a-token")
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, he.Code)
}

func TestRequireAdminWrongSecret(t *testing.T) {
	signed, err := token.SignAdminToken("admin", []byte("other_secret"))
	require.NoError(t, err)

	err = doRequest(t, "Bearer "+signed)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, he.Code)
}

func TestRequireAdminValidToken(t *testing.T) {
	signed, err := token.SignAdminToken("admin", []byte("test_secret"))
	require.NoError(t, err)

	require.NoError(t, doRequest(t, "Bearer "+signed))
}
