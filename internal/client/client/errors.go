package client

import "errors"

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("task not found")
	ErrConflict     = errors.New("username already exists")
	ErrInvalid      = errors.New("invalid request")
)
