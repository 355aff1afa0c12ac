package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rmoliveira/quotation-service/internal/hash"
	"github.com/rmoliveira/quotation-service/internal/models"
	"github.com/rmoliveira/quotation-service/internal/service/token"
)

func seedAdmin(env *testEnv, username, password string) {
	hashed, err := hash.HashPassword(password)
	require.NoError(env.T, err)
	require.NoError(env.T, env.DB.Create(&models.AdminUser{Username: username, PasswordHash: hashed}).Error)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	seedAdmin(env, "admin", "senha123")

	body := map[string]string{"username": "admin", "password": "senha123"}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/login", body)
	require.NoError(t, env.A.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	username, err := token.ParseAdminToken(resp.Token, env.A.JWTSecret)
	require.NoError(t, err)
	require.Equal(t, "admin", username)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	seedAdmin(env, "admin", "senha123")

	body := map[string]string{"username": "admin", "password": "errada"}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/login", body)
	err := env.A.Login(c)
	requireHTTPError(t, err, http.StatusUnauthorized)
}

func TestLoginUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]string{"username": "ghost", "password": "x"}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/login", body)
	err := env.A.Login(c)
	requireHTTPError(t, err, http.StatusUnauthorized)
}

func TestLoginMissingFields(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]string{"username": "", "password": ""}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/login", body)
	err := env.A.Login(c)
	requireHTTPError(t, err, http.StatusBadRequest)
}
