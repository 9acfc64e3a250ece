package services

import "errors"

// Error kinds. Every error returned by a service that is not a store failure
// wraps exactly one of these, so callers can branch with errors.Is.
var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrPermission     = errors.New("permission denied")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

var (
	ErrUsernameTaken        = newError(ErrValidation, "username already exists")
	ErrEmailTaken           = newError(ErrValidation, "email already exists")
	ErrUnknownDepartment    = newError(ErrValidation, "department not found")
	ErrPasswordTooShort     = newError(ErrValidation, "password too short")
	ErrUsernameRequired     = newError(ErrValidation, "username is required")
	ErrEmailRequired        = newError(ErrValidation, "email is required")
	ErrNameRequired         = newError(ErrValidation, "name is required")
	ErrTitleRequired        = newError(ErrValidation, "title is required")
	ErrInvalidStatus        = newError(ErrValidation, "invalid task status")
	ErrInvalidPriority      = newError(ErrValidation, "invalid task priority")
	ErrInvalidType          = newError(ErrValidation, "invalid task type")
	ErrInvalidAssignee      = newError(ErrValidation, "assignee must be an active user")
	ErrSuggestionTextEmpty  = newError(ErrValidation, "text is required")
	ErrInvalidCredentials   = newError(ErrAuthentication, "invalid username or password")
	ErrInvalidToken         = newError(ErrAuthentication, "invalid or expired token")
	ErrCallerInactive       = newError(ErrAuthentication, "account not found or inactive")
	ErrTaskPermissionDenied = newError(ErrPermission, "task belongs to another department")
	ErrTaskNotFound         = newError(ErrNotFound, "task not found")
	ErrUserNotFound         = newError(ErrNotFound, "user not found")
	ErrDepartmentNotFound   = newError(ErrNotFound, "department not found")
	ErrTaskKeyTaken         = newError(ErrConflict, "task key already in use, retry the request")
)

// Errors that are neither a rejected request nor a store failure.
var (
	ErrFailedToHashPassword   = errors.New("failed to hash password")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
)
