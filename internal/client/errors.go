// ABOUTME: Failure taxonomy for backend calls made through the request pipeline
// ABOUTME: Every failed call is classified as an auth attempt, session invalid or other failure

package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the classification given to a failed call.
type Kind int

const (
	// OtherFailure covers network errors and every status other than 401/403.
	OtherFailure Kind = iota
	// AuthAttemptFailure is a 401/403 answer to the login call itself.
	AuthAttemptFailure
	// SessionInvalidFailure is a 401/403 answer to any other call.
	SessionInvalidFailure
)

func (k Kind) String() string {
	switch k {
	case AuthAttemptFailure:
		return "auth_attempt"
	case SessionInvalidFailure:
		return "session_invalid"
	default:
		return "other"
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrAuthAttempt    = errors.New("credentials rejected")
	ErrSessionInvalid = errors.New("session invalid")
	ErrOther          = errors.New("request failed")

	// ErrSuppressed is returned only once the caller abandons a call whose
	// session-invalid failure was already handled globally (credential removed,
	// operator alerted, console sent back to login). Callers must not report it.
	ErrSuppressed = errors.New("failure handled by forced logout")
)

// RequestError describes a failed backend call.
type RequestError struct {
	Kind    Kind
	Status  int // 0 when no response was received
	Method  string
	Path    string
	Message string // backend-provided message, if any
	Err     error  // transport or decode error, if any
}

func (e *RequestError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.Status, http.StatusText(e.Status), e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s %s: backend returned status %d", e.Method, e.Path, e.Status)
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is supports errors.Is(err, ErrAuthAttempt) and friends.
func (e *RequestError) Is(target error) bool {
	switch target {
	case ErrAuthAttempt:
		return e.Kind == AuthAttemptFailure
	case ErrSessionInvalid:
		return e.Kind == SessionInvalidFailure
	case ErrOther:
		return e.Kind == OtherFailure
	}
	return false
}

// suppressedError is what a suppressed call returns after its caller gave up.
type suppressedError struct {
	cause *RequestError
	ctx   error
}

func (e *suppressedError) Error() string {
	return fmt.Sprintf("%v (%v)", e.cause, ErrSuppressed)
}

func (e *suppressedError) Unwrap() []error {
	return []error{e.cause, e.ctx}
}

func (e *suppressedError) Is(target error) bool {
	return target == ErrSuppressed
}

// KindOf returns the classification of err, and false if err did not come
// from the pipeline.
func KindOf(err error) (Kind, bool) {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return OtherFailure, false
}

// IsUnauthorizedLogin reports whether a login failed because the backend
// rejected the credentials (as opposed to a network or server error).
func IsUnauthorizedLogin(err error) bool {
	return errors.Is(err, ErrAuthAttempt)
}

// IsSuppressed reports whether err must be ignored because the forced logout
// flow already reported it.
func IsSuppressed(err error) bool {
	return errors.Is(err, ErrSuppressed)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}
