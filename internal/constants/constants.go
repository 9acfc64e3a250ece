package constants

// Context keys shared between middleware and handlers
const (
	ContextKeyUserID    = "user_id"
	ContextKeyCaller    = "caller"
	ContextKeyRequestID = "request_id"
)

const SessionCookieName = "agiliza_session"

// Account defaults
const (
	MinPasswordLength  = 6
	DefaultAvatarColor = "#3B82F6"
)

// Task keys and dashboard
const (
	TaskKeyPrefixLength   = 3
	RecentActivityLimit   = 10
	UnassignedPlaceholder = "Unassigned"
)

// MaxAIGeneratedTasks caps the number of suggestions accepted from the AI service
const MaxAIGeneratedTasks = 20
