package services

//go:generate mockgen -source=errors.go -destination=mock_errors.go -package=services

import (
	"errors"
	"strings"

	"github.com/sbilibin2017/gw-library/internal/models"
)

// Error variables
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrBookNotFound        = errors.New("book not found")
	ErrMandatoryFields     = errors.New("mandatory fields are missing")
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrForeignKeyViolation = errors.New("referenced record does not exist")
	ErrLimitExceeded       = errors.New("borrowing limit exceeded")
	ErrNoActiveBorrowing   = errors.New("book is not borrowed or has been returned already")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid token")

	ErrInvalidStateTransition = models.ErrBookNotAvailable
	ErrAlreadyReturned        = models.ErrAlreadyReturned

	ErrISBNAlreadyExists  error = &duplicateError{msg: "book with this ISBN already exists"}
	ErrEmailAlreadyExists error = &duplicateError{msg: "user with this email already exists"}
)

// duplicateError is a specific DuplicateKey failure.
type duplicateError struct {
	msg string
}

func (e *duplicateError) Error() string { return e.msg }

func (e *duplicateError) Is(target error) bool { return target == ErrDuplicateKey }

// ValidationError lists every violated field constraint.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Validator checks a struct and returns one message per violation.
type Validator interface {
	Validate(v any) []string
}

func validate(v Validator, input any) error {
	if msgs := v.Validate(input); len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}
