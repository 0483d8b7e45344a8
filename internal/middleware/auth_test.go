package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-tracker/internal/constants"
	"github.com/yukikurage/project-tracker/internal/models"
	"github.com/yukikurage/project-tracker/internal/services"
)

type stubResolver struct {
	users map[string]*models.User
	err   error
	seen  []string
}

func (r *stubResolver) CurrentUser(_ context.Context, token string) (*models.User, error) {
	r.seen = append(r.seen, token)
	if r.err != nil {
		return nil, r.err
	}
	if token == "" {
		return nil, services.ErrUnauthorized
	}
	user, ok := r.users[token]
	if !ok {
		return nil, services.ErrInvalidToken
	}
	return user, nil
}

func newAuthRouter(resolver UserResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("test-secret"))))

	router.POST("/login", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(constants.SessionKeyToken, "session-token")
		_ = session.Save()
		c.Status(http.StatusOK)
	})
	router.GET("/users/me/", RequireAuth(resolver), func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"username": user.Username, "id": userID})
	})
	return router
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	resolver := &stubResolver{users: map[string]*models.User{"good": {ID: 3, Username: "alice"}}}
	router := newAuthRouter(resolver)

	req := httptest.NewRequest("GET", "/users/me/", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"alice","id":3}`, w.Body.String())
}

func TestRequireAuth_SchemeIsCaseInsensitive(t *testing.T) {
	resolver := &stubResolver{users: map[string]*models.User{"good": {ID: 3, Username: "alice"}}}
	router := newAuthRouter(resolver)

	req := httptest.NewRequest("GET", "/users/me/", nil)
	req.Header.Set("Authorization", "bearer good")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth_MissingToken(t *testing.T) {
	router := newAuthRouter(&stubResolver{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/users/me/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	assert.Contains(t, w.Body.String(), `"UNAUTHORIZED"`)
}

func TestRequireAuth_WrongScheme(t *testing.T) {
	resolver := &stubResolver{}
	router := newAuthRouter(resolver)

	req := httptest.NewRequest("GET", "/users/me/", nil)
	req.Header.Set("Authorization", "Basic YWxpY2U6cHc=")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, []string{""}, resolver.seen)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	router := newAuthRouter(&stubResolver{})

	req := httptest.NewRequest("GET", "/users/me/", nil)
	req.Header.Set("Authorization", "Bearer forged")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	assert.Contains(t, w.Body.String(), `"INVALID_TOKEN"`)
}

func TestRequireAuth_ResolverFailure(t *testing.T) {
	router := newAuthRouter(&stubResolver{err: errors.New("database is down")})

	req := httptest.NewRequest("GET", "/users/me/", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "database is down")
}

func TestRequireAuth_SessionFallback(t *testing.T) {
	resolver := &stubResolver{users: map[string]*models.User{"session-token": {ID: 9, Username: "bob"}}}
	router := newAuthRouter(resolver)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/login", nil))
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest("GET", "/users/me/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"bob"`)

	// Each client only sees its own session.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/users/me/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerToken_WithoutSessionMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)

	assert.Empty(t, BearerToken(c))

	c.Request.Header.Set("Authorization", "Bearer  abc ")
	assert.Equal(t, "abc", BearerToken(c))
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetUserID(c)
	assert.False(t, ok)

	c.Set(constants.ContextKeyUserID, uint64(5))
	id, ok := GetUserID(c)
	assert.True(t, ok)
	assert.Equal(t, uint64(5), id)

	c.Set(constants.ContextKeyUserID, -1)
	_, ok = GetUserID(c)
	assert.False(t, ok)
}
