package service

import (
	"errors"
	"fmt"

	"github.com/ariebrainware/docflow-schedule/scope"
	"gorm.io/gorm"
)

// Error kinds. Match with errors.Is; the concrete error carries the message.
var (
	ErrNotFound     = scope.ErrNotFound
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
)

// Error is a failure with a caller-facing message and a kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func conflictf(format string, args ...interface{}) error {
	return &Error{Kind: ErrConflict, Msg: fmt.Sprintf(format, args...)}
}

func unauthorizedf(format string, args ...interface{}) error {
	return &Error{Kind: ErrUnauthorized, Msg: fmt.Sprintf(format, args...)}
}

func validationf(format string, args ...interface{}) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// uniqueViolation maps a duplicate key error from a racing insert onto the
// same conflict a pre-check would have produced.
func uniqueViolation(err error, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &Error{Kind: ErrConflict, Msg: msg}
	}
	return err
}
