package entity

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound    = errors.New("local record not found")
	ErrLookupUnsupported = errors.New("entity type has no remote lookup")
	ErrImportUnsupported = errors.New("entity type has no local import")
	ErrNegativeLimit     = errors.New("batch limit must not be negative")
)

// TransportError удаленный вызов не дал пригодного ответа
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
