package customer

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Verifier checks a supplied password against a stored credential. The
// login handler owns the decision of what to tell the user; a Verifier
// only answers yes or no.
type Verifier interface {
	Verify(stored, supplied string) bool
}

// BcryptVerifier expects stored credentials to be bcrypt hashes.
type BcryptVerifier struct{}

func (BcryptVerifier) Verify(stored, supplied string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
}

// PlainVerifier compares plaintext credentials. It exists only for legacy
// customer files that have not been migrated to hashes.
type PlainVerifier struct{}

func (PlainVerifier) Verify(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
