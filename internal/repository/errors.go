// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.  For
// example, ErrMovieNotFound signals that an id-based lookup missed, while
// ErrEmailExists signals that a registration conflicts with an existing
// account.
package repository

import "errors"

// ErrMovieNotFound is returned when a movie lookup by id finds no row.
// Handlers should translate this into an HTTP 404 response.
var ErrMovieNotFound = errors.New("movie not found")

// ErrActorNotFound is returned when an actor lookup by id finds no row.
var ErrActorNotFound = errors.New("actor not found")

// ErrProducerNotFound is returned when a producer lookup by id finds no row.
var ErrProducerNotFound = errors.New("producer not found")

// ErrUserNotFound is returned when a user lookup by id finds no row.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when a registration or profile update would
// reuse an email address that another account already owns.  Handlers
// should translate this into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")
