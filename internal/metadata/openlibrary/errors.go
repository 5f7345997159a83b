package openlibrary

import (
	"errors"
	"fmt"
)

// Sentinel errors for Open Library operations.
var (
	ErrNotFound    = errors.New("openlibrary: not found")
	ErrNoCover     = errors.New("openlibrary: no cover")
	ErrRateLimited = errors.New("openlibrary: rate limited by server")
	ErrServer      = errors.New("openlibrary: server error")
	ErrBadResponse = errors.New("openlibrary: malformed response")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op    string // "search", "cover"
	Title string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("openlibrary %s %q: %v", e.Op, e.Title, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, title string, err error) error {
	return &Error{Op: op, Title: title, Err: err}
}
