// Package service holds the business logic for accounts, cafes, likes and
// the plant catalog, delegating persistence to repository interfaces.
package service

import (
	"errors"

	"github.com/atinyakov/plantcafe/internal/catalog"
	"github.com/atinyakov/plantcafe/internal/repository"
)

var (
	// ErrUsernameTaken is returned by Register for a duplicate username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials covers both an unknown user and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden is returned when a non-admin tries to change cafes.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned for missing users, plants and cafes.
	ErrNotFound = repository.ErrNotFound
	// ErrCatalogUnavailable is returned when the plant catalog cannot answer.
	ErrCatalogUnavailable = catalog.ErrUnavailable
)
