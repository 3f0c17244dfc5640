// Package storage declares the contract every storage backend of the
// application satisfies. The user directory and the URL directory are
// independent; a user may own zero or many URL records.
package storage

import (
	"context"

	"github.com/avoronov/tinyapp/internal/models"
	"github.com/avoronov/tinyapp/internal/user"
)

// Storage is the full storage contract consumed by the application wiring.
// Handlers and services depend on narrower, consumer-side interfaces.
type Storage interface {
	// CreateUser inserts a new user record. The caller assigns the ID.
	CreateUser(ctx context.Context, usr *user.User) error

	// FindUserByID resolves a session identity. An absent or empty id is
	// a miss, never an error.
	FindUserByID(ctx context.Context, id string) (*user.User, bool, error)

	// FindUserByEmail resolves a login or registration candidate by exact,
	// case-sensitive email match.
	FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error)

	// InsertURL stores a record under shortKey. Returns
	// models.ErrShortKeyExists when the key is already taken.
	InsertURL(ctx context.Context, shortKey string, record models.URLRecord) error

	// FindURLByShort is the public resolve path; it requires no identity.
	FindURLByShort(ctx context.Context, shortKey string) (models.URLRecord, bool, error)

	// UpdateURL replaces the destination of an existing record.
	// Returns models.ErrNotFound when shortKey is absent.
	UpdateURL(ctx context.Context, shortKey, newLongURL string) error

	// DeleteURL removes a record. Returns models.ErrNotFound when absent.
	DeleteURL(ctx context.Context, shortKey string) error

	// IsShortKeyExists reports whether shortKey is already taken.
	IsShortKeyExists(ctx context.Context, shortKey string) (bool, error)

	// GetUserURLs returns a detached snapshot of the records owned by
	// ownerID, keyed by short key. Mutating the snapshot does not affect
	// the directory and vice versa.
	GetUserURLs(ctx context.Context, ownerID string) (map[string]models.URLRecord, error)

	GetNumberOfShortenedURLs(ctx context.Context) (int64, error)

	GetNumberOfUsers(ctx context.Context) (int64, error)

	Ping(ctx context.Context) error

	Close() error
}
