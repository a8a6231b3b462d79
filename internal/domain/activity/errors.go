package activity

import "errors"

// ErrInvalidInput indicates an activity entry is missing or malformed.
var ErrInvalidInput = errors.New("invalid activity input")
