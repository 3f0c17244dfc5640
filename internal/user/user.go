// Package user defines the user model used for authentication and
// per-user URL ownership.
package user

// User represents a registered user.
type User struct {
	// ID is the unique identifier of the user, a random alphanumeric key.
	ID string

	// Email is the registration email, unique among users.
	Email string

	// PasswordHash is the salted one-way hash of the user's password.
	// Plaintext passwords are never stored.
	PasswordHash string
}
