package core

import "errors"

// ErrZeroVector is returned whenever an operation would produce the zero vector
var ErrZeroVector = errors.New("zero vector is not allowed")
