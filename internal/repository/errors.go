package repository

import "errors"

// ErrConflict is returned when an insert cannot proceed because of
// conflicting state, such as booking a table that already carries an
// active reservation for the same slot. Handlers translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")
