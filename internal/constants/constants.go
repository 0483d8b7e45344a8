package constants

// Context and session keys
const (
	ContextKeyUser      = "current_user"
	ContextKeyUserID    = "user_id"
	SessionCookieName   = "tracker_session"
	SessionKeyToken     = "access_token"
	AuthorizationHeader = "Authorization"
	BearerScheme        = "Bearer"
	TokenTypeBearer     = "bearer"
)

// Validation limits
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	// bcrypt ignores input past 72 bytes, so longer passwords are rejected.
	MaxPasswordLength = 72
	// Column widths of users.email, projects.name and tasks.title.
	MaxEmailLength       = 255
	MaxProjectNameLength = 255
	MaxTitleLength       = 255
)

// Pagination
const (
	DefaultOffset   = 0
	DefaultPageSize = 100
	MinPageSize     = 1
	MaxPageSize     = 1000
)
