package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/crustymonkey/gauth-server/internal/storage"
)

// apiKeyBytes is the raw entropy behind a generated API key; 24 bytes
// encodes to a 32-character base64url string.
const apiKeyBytes = 24

var (
	// ErrMissingKey and ErrInvalidKey are distinct so callers can log which
	// case occurred, but both must surface to clients as the same generic
	// "invalid api key" failure to avoid leaking the distinction.
	ErrMissingKey = errors.New("api key missing")
	ErrInvalidKey = errors.New("invalid api key")
)

// Gate validates inbound API keys against stored bindings. It performs one
// read per call, has no side effects, and is safe for concurrent use.
type Gate struct {
	store storage.APIKeysStore
}

func NewGate(store storage.APIKeysStore) *Gate {
	return &Gate{store: store}
}

// Authorize returns the host bound to apiKey. The host identifies the caller
// for logging only; any valid key may operate on any ident. A store outage is
// returned as-is (wrapped) so the caller can distinguish it from a bad key.
func (g *Gate) Authorize(ctx context.Context, apiKey string) (string, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return "", ErrMissingKey
	}

	host, err := g.store.HostForKey(ctx, apiKey)
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrInvalidKey
	}
	if err != nil {
		return "", fmt.Errorf("authorize: %w", err)
	}
	return host, nil
}

// GenerateAPIKey returns a new opaque key for the admin issuance flow. The
// raw key is shown to the operator exactly once; only the binding row is kept.
func GenerateAPIKey() (string, error) {
	buf := make([]byte, apiKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
