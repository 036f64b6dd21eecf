package storage

import (
	"context"
	"errors"
	"time"
)

// APIKeyBinding ties an opaque API key to the host it was issued for. The
// host is informational: it is logged on successful authorization but grants
// no per-ident access.
type APIKeyBinding struct {
	ID        int64
	Host      string
	APIKey    string
	CreatedAt time.Time
}

// SecretRecord is a stored TOTP shared secret registered under an ident.
type SecretRecord struct {
	ID        int64
	Ident     string
	Secret    string
	CreatedAt time.Time
}

var (
	ErrNotFound = errors.New("not found")

	// ErrDuplicateIdent reports a create against an ident that already has a
	// record. Uniqueness is enforced by the store schema, not by a
	// read-before-write, so concurrent creates cannot race past it.
	ErrDuplicateIdent = errors.New("duplicate ident")
)

type APIKeysStore interface {
	// HostForKey returns the host bound to apiKey, or ErrNotFound.
	HostForKey(ctx context.Context, apiKey string) (string, error)
	Insert(ctx context.Context, b APIKeyBinding) error
}

type SecretsStore interface {
	// Create inserts (ident, secret). Returns ErrDuplicateIdent when a
	// record for ident already exists.
	Create(ctx context.Context, ident, secret string) error
	// Delete removes the record for ident. Deleting an ident that does not
	// exist is not an error; the bool reports whether a row was removed.
	Delete(ctx context.Context, ident string) (bool, error)
	GetByIdent(ctx context.Context, ident string) (SecretRecord, error)
}
