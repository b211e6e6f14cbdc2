package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrDataIntegrity = errors.New("data integrity")
	ErrIndexNotReady = errors.New("index not ready")
)

// NotFoundError names what was looked up and by which key.
type NotFoundError struct {
	Kind string
	Key  string
}

func NewNotFound(kind string, key any) *NotFoundError {
	return &NotFoundError{Kind: kind, Key: fmt.Sprint(key)}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type InvalidInputError struct {
	Field  string
	Reason string
}

func NewInvalidInput(field, reason string) *InvalidInputError {
	return &InvalidInputError{Field: field, Reason: reason}
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// DataIntegrityError is a meal token that no catalog ingredient resolves.
type DataIntegrityError struct {
	MealID int64
	Token  string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("meal %d references unknown ingredient %q", e.MealID, e.Token)
}

func (e *DataIntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}
