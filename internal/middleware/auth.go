package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker/internal/constants"
	apierrors "github.com/yukikurage/project-tracker/internal/errors"
	"github.com/yukikurage/project-tracker/internal/models"
	"github.com/yukikurage/project-tracker/internal/services"
)

// UserResolver maps a bearer token to the user it was issued to.
type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth resolves the current user from the bearer token and stores it
// in the context. Requests without a valid token are rejected with 401.
func RequireAuth(resolver UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolver.CurrentUser(c.Request.Context(), BearerToken(c))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUnauthorized):
				apierrors.Unauthorized(c, "Not authenticated")
			case errors.Is(err, services.ErrInvalidToken):
				apierrors.InvalidToken(c, "")
			default:
				slog.ErrorContext(c.Request.Context(), "failed to resolve current user", "error", err)
				apierrors.InternalError(c, "")
			}
			return
		}

		// Store user in context for easy access in handlers
		c.Set(constants.ContextKeyUser, user)
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Next()
	}
}

// BearerToken returns the token from the Authorization header, falling back
// to the one saved in the client's session at login.
func BearerToken(c *gin.Context) string {
	if header := c.GetHeader(constants.AuthorizationHeader); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
			return ""
		}
		return strings.TrimSpace(token)
	}

	// The session middleware is optional.
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return ""
	}
	if token, ok := sessions.Default(c).Get(constants.SessionKeyToken).(string); ok {
		return token
	}
	return ""
}

// GetCurrentUser retrieves the authenticated user from context
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
