// Package apperror defines the closed set of error kinds the application
// can signal.
//
// WHY A CLOSED SET?
// Every guard, service, and repository operation fails with exactly one of
// these sentinel kinds — never a bare string, never a generic failure.
// The GraphQL layer reports them verbatim as per-field errors, and tests
// can assert on the kind with errors.Is() instead of matching message text.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Callers check these with errors.Is().
var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrAlreadyAuthenticated = errors.New("already authenticated")
	ErrInsufficientRole     = errors.New("insufficient role")
	ErrUserNotFound         = errors.New("user not found")
	ErrDuplicateUsername    = errors.New("duplicate username")
	ErrDuplicateSnipName    = errors.New("duplicate snip name")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrSnipNotFound         = errors.New("snip not found")
)

// AppError pairs a sentinel kind with a human-readable message.
//
// The service layer returns these; the transport layer decides how to
// surface them (per-field GraphQL error, HTTP status, log line).
type AppError struct {
	Err     error  // one of the sentinel kinds above
	Message string // Human-readable error message
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotAuthenticated is raised when an operation requires a signed-in caller
// and the request is anonymous.
func NotAuthenticated() *AppError {
	return &AppError{
		Err:     ErrNotAuthenticated,
		Message: "not authenticated",
	}
}

// AlreadyAuthenticated is raised when an operation requires an anonymous
// caller (sign-up, sign-in) and the request already carries an identity.
func AlreadyAuthenticated() *AppError {
	return &AppError{
		Err:     ErrAlreadyAuthenticated,
		Message: "already authenticated",
	}
}

// InsufficientRole is raised when the caller holds no role, or too low a
// role, on the snip being resolved.
func InsufficientRole(required string) *AppError {
	return &AppError{
		Err:     ErrInsufficientRole,
		Message: fmt.Sprintf("caller does not hold role %s on this snip", required),
	}
}

// UserNotFound is raised when a username lookup comes up empty.
func UserNotFound(username string) *AppError {
	return &AppError{
		Err:     ErrUserNotFound,
		Message: fmt.Sprintf("no user with username %q", username),
	}
}

// DuplicateUsername is raised on sign-up with a taken username.
func DuplicateUsername(username string) *AppError {
	return &AppError{
		Err:     ErrDuplicateUsername,
		Message: fmt.Sprintf("username %q is already taken", username),
	}
}

// DuplicateSnipName is raised when an owner already has a snip with the
// requested name. Uniqueness is per owner, not global.
func DuplicateSnipName(name string) *AppError {
	return &AppError{
		Err:     ErrDuplicateSnipName,
		Message: fmt.Sprintf("you already have a snip named %q", name),
	}
}

// InvalidCredentials is raised on sign-in failure. The same kind covers
// "unknown username" and "wrong password" so the response doesn't reveal
// which usernames exist.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid username or password",
	}
}

// SnipNotFound is raised when a snip lookup by ID comes up empty.
func SnipNotFound(id string) *AppError {
	return &AppError{
		Err:     ErrSnipNotFound,
		Message: fmt.Sprintf("snip not found with id %s", id),
	}
}
