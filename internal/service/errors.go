package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Kind classifies a failure so the transport can pick a status code.
type Kind string

const (
	KindUnauthorized    Kind = "Unauthorized"
	KindNotFound        Kind = "NotFound"
	KindInvalidArgument Kind = "InvalidArgument"
	KindConflict        Kind = "Conflict"
	KindInternal        Kind = "Internal"
)

// Error is returned by every service operation that fails.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of err; errors not produced here are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func unauthorized(msg string) error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func notFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func invalid(msg string) error {
	return &Error{Kind: KindInvalidArgument, Message: msg}
}

// dbError wraps a storage failure. Errors that already carry a kind pass
// through untouched.
func dbError(msg string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return &Error{Kind: KindConflict, Message: msg, Err: err}
	}
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}
