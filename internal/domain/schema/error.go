package schema

import (
	"errors"
	"fmt"
)

var (
	ErrRequired      = errors.New("required field is empty")
	ErrInvalidNumber = errors.New("value is not a number")
	ErrInvalidDate   = errors.New("value is not a date")
	ErrInvalidList   = errors.New("value is not a list of records")
)

// ValidationError ошибка проекции конкретного поля
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
