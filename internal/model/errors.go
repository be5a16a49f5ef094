package model

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every layer. Callers wrap these with context and
// classify with errors.Is; errresponse maps them to HTTP statuses.
var (
	ErrValidation               = errors.New("invalid request data")
	ErrUnauthenticated          = errors.New("unauthorized")
	ErrInvalidCredential        = errors.New("invalid token")
	ErrInvalidRefreshCredential = errors.New("invalid refresh token")
	ErrInvalidLogin             = errors.New("invalid credentials")
	ErrForbidden                = errors.New("forbidden")
	ErrNotFound                 = errors.New("not found")
	ErrInvalidReference         = errors.New("invalid reference")
	ErrStoreUnavailable         = errors.New("store unavailable")
	ErrStorage                  = errors.New("storage error")
)

// Error is a classified error whose text is safe to show to callers.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NewError classifies a caller-facing message under kind.
func NewError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
