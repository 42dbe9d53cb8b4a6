package body

import "errors"

// ErrInvalidInput marks a non-physical calculator input such as a zero
// height or a birth date in the future.
var ErrInvalidInput = errors.New("invalid input")
