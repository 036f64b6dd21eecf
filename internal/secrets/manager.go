// Package secrets orchestrates the lifecycle of stored TOTP secrets:
// create, delete and lookup against the backing store.
package secrets

import (
	"context"
	"fmt"

	"github.com/crustymonkey/gauth-server/internal/storage"
	"github.com/crustymonkey/gauth-server/internal/totp"
)

type Manager struct {
	store     storage.SecretsStore
	secretLen int
}

// NewManager returns a manager generating secrets of secretLen raw bytes.
func NewManager(store storage.SecretsStore, secretLen int) *Manager {
	return &Manager{store: store, secretLen: secretLen}
}

// Create generates a fresh secret for ident and stores it. It returns
// storage.ErrDuplicateIdent when a record for ident already exists; the
// returned secret string is the only time the raw value is handed back to a
// caller. Rotation is modeled as delete-then-create; records are never
// updated in place.
func (m *Manager) Create(ctx context.Context, ident string) (string, error) {
	secret, err := totp.GenerateSecret(m.secretLen)
	if err != nil {
		return "", err
	}

	if err := m.store.Create(ctx, ident, secret); err != nil {
		return "", err
	}
	return secret, nil
}

// Delete removes the secret for ident. An ident with no record is treated as
// success (no existence check is performed); the bool reports whether a row
// was actually removed, for logging only.
func (m *Manager) Delete(ctx context.Context, ident string) (bool, error) {
	removed, err := m.store.Delete(ctx, ident)
	if err != nil {
		return false, fmt.Errorf("delete secret: %w", err)
	}
	return removed, nil
}

// Lookup fetches the record for ident, or storage.ErrNotFound.
func (m *Manager) Lookup(ctx context.Context, ident string) (storage.SecretRecord, error) {
	return m.store.GetByIdent(ctx, ident)
}
