package constants

// SessionCookieName is the name of the session cookie issued at login.
const SessionCookieName = "task_session"

// ContextKeyUserID is the key under which the authenticated user ID is
// stored in both the session and the gin context.
const ContextKeyUserID = "user_id"

// Pagination bounds for list endpoints.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)
