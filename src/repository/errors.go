// Package repository defines the store contracts consumed by services and
// controllers, plus the sentinel error values shared across them. The
// sentinels let handlers translate failures into HTTP statuses without
// inspecting driver errors: ErrValidation maps to 400, ErrForbidden to 403,
// ErrNotFound to 404 and ErrConflict to 409.
package repository

import "errors"

// ErrValidation is returned for malformed or missing input, such as a
// self-connection attempt or a mentorship update on a plain connection.
var ErrValidation = errors.New("validation failed")

// ErrConflict is returned when an operation collides with existing state,
// such as a second connection request for the same pair of users. The
// unique index on the connections collection raises it under races.
var ErrConflict = errors.New("conflict")

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller is not the participant the
// operation requires.
var ErrForbidden = errors.New("forbidden")
