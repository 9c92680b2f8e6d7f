package codeforces

import "errors"

// Sentinel kinds for platform client errors.
var (
	ErrUpstreamStatus = errors.New("codeforces returned a failed status")
	ErrHTTPStatus     = errors.New("codeforces returned an unexpected HTTP status")
	ErrDecode         = errors.New("decode codeforces response")
	ErrEmptyHandle    = errors.New("handle must not be empty")
)
