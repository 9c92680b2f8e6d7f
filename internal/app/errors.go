package service

import "errors"

var (
	// ErrInvalidHandle is returned for empty or over-long handles.
	ErrInvalidHandle = errors.New("invalid handle")
	// ErrInvalidAccount is returned when the submission source cannot
	// produce data for a handle.
	ErrInvalidAccount = errors.New("invalid account")
)
