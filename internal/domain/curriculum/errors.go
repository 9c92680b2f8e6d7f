package curriculum

import "errors"

// Sentinel kinds for curriculum errors.
var (
	ErrLoadResources = errors.New("load resource directory failed")
)
