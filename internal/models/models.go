// Package models contains the request/response types of the HTTP API,
// the stored URL record shape, and the sentinel errors shared between
// the storage, service and router layers.
package models

import "errors"

// The error taxonomy of the application. All of these are recoverable
// client-input conditions; the router maps each to an HTTP status.
var (
	// ErrNotFound is returned for an unknown short key or unknown user.
	ErrNotFound = errors.New("short key not found")

	// ErrUnauthenticated is returned when a request carries no valid
	// session identity, or when login credentials do not match.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden is returned when the requester is authenticated but
	// does not own the target URL record.
	ErrForbidden = errors.New("requester does not own this URL")

	// ErrEmailTaken is returned on registration with an already registered email.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrInvalidInput is returned when a required field is missing or malformed.
	ErrInvalidInput = errors.New("missing or invalid required field")

	// ErrShortKeyExists is returned by the storage when inserting a URL
	// record under a short key that is already taken.
	ErrShortKeyExists = errors.New("short key already exists")

	// ErrKeyGenerationExhausted is returned when a unique key could not be
	// minted within the allowed number of attempts.
	ErrKeyGenerationExhausted = errors.New("the number of attempts to generate a unique key has been exceeded")
)

// URLRecord is a stored shortened URL. The owner is set once at creation
// and never reassigned.
type URLRecord struct {
	LongURL string
	OwnerID string
}

// RegisterRequest is the payload of POST /api/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest is the payload of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned on successful registration or login.
type AuthResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ShortenRequest is the payload of POST /api/urls. The url field is
// free text; the service extracts the first http(s) URL from it.
type ShortenRequest struct {
	URL string `json:"url" validate:"required"`
}

// ShortenResponse carries the resulting short URL.
type ShortenResponse struct {
	Result string `json:"result"`
}

// UpdateURLRequest is the payload of PUT /api/urls/{short}.
type UpdateURLRequest struct {
	URL string `json:"url" validate:"required"`
}

// UserURL is one entry of a user's URL listing.
type UserURL struct {
	ShortURL    string `json:"short_url"`
	OriginalURL string `json:"original_url"`
}

// UserUrls is the response of GET /api/urls.
type UserUrls []UserURL

// InternalStatsResponse is the response of GET /api/internal/stats.
type InternalStatsResponse struct {
	URLs  int64 `json:"urls"`
	Users int64 `json:"users"`
}
