package customer

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no customer has the requested email.
	ErrNotFound = errors.New("customer not found")
	// ErrDuplicateEmail is returned by Seed when an email already exists.
	ErrDuplicateEmail = errors.New("email already exists")
)

// Customer is one account from the customer table. Password holds the
// stored credential: a bcrypt hash, or plaintext for legacy data files.
// Credential comparison lives in Verifier, not here.
type Customer struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type Store interface {
	// GetByEmail returns the customer with the given email, or ErrNotFound.
	GetByEmail(ctx context.Context, email string) (Customer, error)
	Ping(ctx context.Context) error
}
