package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/project-tracker/internal/constants"
)

// Validation errors
var (
	ErrUsernameRequired    = errors.New("username is required")
	ErrUsernameLength      = fmt.Errorf("username must be between %d and %d characters", constants.MinUsernameLength, constants.MaxUsernameLength)
	ErrEmailRequired       = errors.New("email is required")
	ErrEmailTooLong        = fmt.Errorf("email must be at most %d characters", constants.MaxEmailLength)
	ErrPasswordRequired    = errors.New("password is required")
	ErrPasswordTooLong     = fmt.Errorf("password must be at most %d bytes", constants.MaxPasswordLength)
	ErrProjectNameRequired = errors.New("project name is required")
	ErrProjectNameTooLong  = fmt.Errorf("project name must be at most %d characters", constants.MaxProjectNameLength)
	ErrTitleRequired       = errors.New("title is required")
	ErrTitleTooLong        = fmt.Errorf("title must be at most %d characters", constants.MaxTitleLength)
	ErrInvalidStatus       = errors.New("invalid task status")
)

// Conflict errors
var (
	ErrUsernameTaken     = errors.New("username already registered")
	ErrEmailTaken        = errors.New("email already registered")
	ErrUserOwnsResources = errors.New("user has created projects or tasks and cannot be deleted")
)

// Not found errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrProjectNotFound  = errors.New("project not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrAssigneeNotFound = errors.New("assigned user not found")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInvalidToken       = errors.New("could not validate credentials")
	ErrUnauthorized       = errors.New("not authenticated")
)

// IsValidationError reports whether err is rejected input rather than a
// store failure.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrUsernameRequired,
		ErrUsernameLength,
		ErrEmailRequired,
		ErrEmailTooLong,
		ErrPasswordRequired,
		ErrPasswordTooLong,
		ErrProjectNameRequired,
		ErrProjectNameTooLong,
		ErrTitleRequired,
		ErrTitleTooLong,
		ErrInvalidStatus,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
