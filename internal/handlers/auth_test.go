package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-tracker/internal/dto"
	apierrors "github.com/yukikurage/project-tracker/internal/errors"
)

func TestAuthHandler_Register(t *testing.T) {
	env := setupHandlerTestEnv(t)

	r := newSessionRouter()
	r.POST("/users/", env.auth.Register)

	body := jsonBody(t, map[string]string{
		"username": "alice",
		"email":    "a@x.com",
		"password": "pw123",
	})
	req := httptest.NewRequest(http.MethodPost, "/users/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	var user dto.UserDTO
	decodeJSON(t, w, &user)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@x.com", user.Email)
}

func TestAuthHandler_Register_Errors(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.createUser(t, "alice")

	r := newSessionRouter()
	r.POST("/users/", env.auth.Register)

	tests := []struct {
		name    string
		payload map[string]string
		code    string
	}{
		{"missing email", map[string]string{"username": "bob", "password": "pw"}, apierrors.ErrCodeInvalidInput},
		{"invalid email", map[string]string{"username": "bob", "email": "not-an-email", "password": "pw"}, apierrors.ErrCodeInvalidInput},
		{"short username", map[string]string{"username": "bo", "email": "b@x.com", "password": "pw"}, apierrors.ErrCodeInvalidInput},
		{"long email", map[string]string{"username": "bob", "email": strings.Repeat("b", 250) + "@x.com", "password": "pw"}, apierrors.ErrCodeInvalidInput},
		{"taken username", map[string]string{"username": "alice", "email": "b@x.com", "password": "pw"}, apierrors.ErrCodeConflict},
		{"taken email", map[string]string{"username": "bob", "email": "alice@example.com", "password": "pw"}, apierrors.ErrCodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/users/", bytes.NewReader(jsonBody(t, tt.payload)))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var apiErr apierrors.APIError
			decodeJSON(t, w, &apiErr)
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestAuthHandler_Login_Form(t *testing.T) {
	env := setupHandlerTestEnv(t)
	alice := env.createUser(t, "alice")

	r := newSessionRouter()
	r.POST("/token", env.auth.Login)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, formRequest("/token", url.Values{"username": {"alice"}, "password": {"pw123"}}))

	require.Equal(t, http.StatusOK, w.Code)
	var token dto.TokenResponse
	decodeJSON(t, w, &token)
	assert.Equal(t, "bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)
	assert.False(t, token.ExpiresAt.IsZero())
	assert.NotEmpty(t, w.Result().Cookies(), "login must store the token in the session")

	current, err := env.authService.CurrentUser(context.Background(), token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, current.ID)
}

func TestAuthHandler_Login_JSON(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.createUser(t, "alice")

	r := newSessionRouter()
	r.POST("/token", env.auth.Login)

	req := httptest.NewRequest(http.MethodPost, "/token", bytes.NewReader(jsonBody(t, map[string]string{
		"username": "alice",
		"password": "pw123",
	})))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_Login_Failures(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.createUser(t, "alice")

	r := newSessionRouter()
	r.POST("/token", env.auth.Login)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, formRequest("/token", url.Values{"username": {"alice"}, "password": {"wrong"}}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	var apiErr apierrors.APIError
	decodeJSON(t, w, &apiErr)
	assert.Equal(t, apierrors.ErrCodeInvalidCredentials, apiErr.Code)
	assert.Empty(t, w.Result().Cookies())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, formRequest("/token", url.Values{"username": {"alice"}}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupHandlerTestEnv(t)

	r := newSessionRouter()
	r.POST("/logout", env.auth.Logout)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Logged out successfully")
}
