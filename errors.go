package muhasabah

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized is returned when an access token is missing, malformed, expired or of the wrong type.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is returned for an unknown identifier or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountDisabled is returned when the password matched but the account is inactive.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrLoginRateLimited is returned before any credential check once the login budget is spent.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrThrottleUnavailable is returned when the throttle backend cannot be reached.
	ErrThrottleUnavailable = errors.New("login throttle unavailable")
	// ErrUserNotFound is returned by UserStore lookups that match nothing.
	ErrUserNotFound = errors.New("user not found")
	// ErrAccountExists is returned when email or username is already taken.
	ErrAccountExists = errors.New("account already exists")
	// ErrValidation matches every *ValidationError through errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrRefreshInvalid is returned for malformed, expired or forged refresh tokens.
	ErrRefreshInvalid = errors.New("refresh token invalid")
	// ErrRefreshMissing is returned when neither the body nor the cookie carries a refresh token.
	ErrRefreshMissing = errors.New("no refresh token provided")
	// ErrSuperuserFlags is returned when a superuser is requested without staff or superuser flags.
	ErrSuperuserFlags = errors.New("superuser must have is_staff=true and is_superuser=true")
	// ErrEngineNotReady is returned by methods on a nil or partially built Engine.
	ErrEngineNotReady = errors.New("engine not ready")
)

// FieldErrors maps a request field to its problems, in the order found.
type FieldErrors map[string][]string

// Add records msg against field.
func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// Empty reports whether no problem was recorded.
func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// Err returns a *ValidationError carrying f, or nil when f is empty.
func (f FieldErrors) Err() error {
	if f.Empty() {
		return nil
	}
	return &ValidationError{Fields: f}
}

// ValidationError aggregates every field problem of one request.
type ValidationError struct {
	Fields FieldErrors
	// Cause, when set, is matched by errors.Is in addition to ErrValidation.
	Cause error
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Is lets callers match any ValidationError with errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	if target == ErrValidation {
		return true
	}
	return e.Cause != nil && errors.Is(e.Cause, target)
}

// fieldError builds a single-field ValidationError.
func fieldError(field, msg string) error {
	f := FieldErrors{}
	f.Add(field, msg)
	return f.Err()
}
