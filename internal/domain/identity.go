package domain

import "time"

// Identity is the authenticated-principal record. The gate treats it as
// opaque; only the provider and account service inspect its fields.
type Identity struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
