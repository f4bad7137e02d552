package domain

import (
	"errors"
	"fmt"
)

// Kind classifies failures so the API boundary can map them to a response status.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error is a classified failure carrying a client-safe message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// NewError builds a classified error.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validationf is shorthand for a KindValidation error.
func Validationf(format string, args ...any) *Error {
	return NewError(KindValidation, format, args...)
}

// KindOf reports the kind of err, KindInternal when err is not classified.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

var (
	// ErrUserNotFound is returned when a user id or email does not resolve.
	ErrUserNotFound = &Error{Kind: KindNotFound, Message: "user not found"}
	// ErrCategoryNotFound is returned when a category id does not resolve.
	ErrCategoryNotFound = &Error{Kind: KindNotFound, Message: "category not found"}
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = &Error{Kind: KindNotFound, Message: "quiz not found"}
	// ErrQuestionNotFound indicates a question id does not resolve.
	ErrQuestionNotFound = &Error{Kind: KindNotFound, Message: "question not found"}
	// ErrResultNotFound is returned when a user has no result for a quiz.
	ErrResultNotFound = &Error{Kind: KindNotFound, Message: "result not found"}

	ErrUserExists         = &Error{Kind: KindConflict, Message: "user already exist"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Message: "invalid email or password"}
	ErrInvalidToken       = &Error{Kind: KindUnauthorized, Message: "invalid or expired token"}
	ErrMissingToken       = &Error{Kind: KindUnauthorized, Message: "no token provided"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "forbidden: insufficient permissions"}
	ErrNothingToUpdate    = &Error{Kind: KindValidation, Message: "no fields to update"}
)
