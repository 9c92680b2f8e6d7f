package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound   = errors.New("cache entry not found")
	ErrClosed     = errors.New("store closed")
	ErrInvalidURL = errors.New("invalid cache URL")
)
