package apperror

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidCell     = errors.New("invalid cell index")
	ErrUnknownAction   = errors.New("unknown action")
	ErrAddrNotFound    = errors.New("redis address string is empty")
)
