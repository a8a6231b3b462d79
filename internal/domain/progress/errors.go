package progress

import "errors"

// ErrInvalidInput indicates a missing tenant or user.
var ErrInvalidInput = errors.New("invalid progress input")
