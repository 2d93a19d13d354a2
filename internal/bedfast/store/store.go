package store

import "errors"

// ErrNotFound is returned by Get* methods when no row matches.
var ErrNotFound = errors.New("not found")
