package activity

import "errors"

// ErrInvalidInput indicates invalid activity query input.
var ErrInvalidInput = errors.New("invalid activity input")
