package user

import "errors"

// ErrNotFound is returned when no record matches the requested id.
var ErrNotFound = errors.New("user not found")
