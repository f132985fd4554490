package sendlog

import "errors"

var (
	ErrNotFound  = errors.New("send log entry not found")
	ErrDuplicate = errors.New("send log entry already exists")
	ErrEmptyKey  = errors.New("entity key is empty")
)
