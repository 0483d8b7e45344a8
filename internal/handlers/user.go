package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker/internal/dto"
	apierrors "github.com/yukikurage/project-tracker/internal/errors"
	"github.com/yukikurage/project-tracker/internal/middleware"
	"github.com/yukikurage/project-tracker/internal/models"
	"github.com/yukikurage/project-tracker/internal/services"
	"github.com/yukikurage/project-tracker/internal/utils"
)

// UserHandler serves user lookups and account deletion.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetCurrentUser returns the authenticated user.
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteCurrentUser deletes the authenticated user's account and session.
func (h *UserHandler) DeleteCurrentUser(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}

	// The account is already deleted; a failed clear must not report failure.
	if err := clearSession(c); err != nil {
		slog.WarnContext(c.Request.Context(), "failed to clear session after account deletion",
			"user_id", user.ID,
			"error", err,
		)
	}

	c.Status(http.StatusNoContent)
}

// ListUsers returns a page of users. The username and email query
// parameters narrow the result to the matching user, or to none.
func (h *UserHandler) ListUsers(c *gin.Context) {
	username := strings.TrimSpace(c.Query("username"))
	email := strings.TrimSpace(c.Query("email"))
	if username != "" || email != "" {
		h.findUsers(c, username, email)
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), utils.GetPaginationParams(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

func (h *UserHandler) findUsers(c *gin.Context, username, email string) {
	var (
		user *models.User
		err  error
	)
	if username != "" {
		user, err = h.userService.GetUserByUsername(c.Request.Context(), username)
	} else {
		user, err = h.userService.GetUserByEmail(c.Request.Context(), email)
	}

	switch {
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusOK, []dto.UserDTO{})
	case err != nil:
		respondError(c, err)
	case email != "" && user.Email != email:
		c.JSON(http.StatusOK, []dto.UserDTO{})
	default:
		c.JSON(http.StatusOK, []dto.UserDTO{dto.ToUserDTO(*user)})
	}
}

// GetUser returns a user by ID.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
