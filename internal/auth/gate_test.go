package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/crustymonkey/gauth-server/internal/storage"
)

type fakeAPIKeysStore struct {
	hosts map[string]string
	err   error
}

func (f fakeAPIKeysStore) HostForKey(_ context.Context, apiKey string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	host, ok := f.hosts[apiKey]
	if !ok {
		return "", storage.ErrNotFound
	}
	return host, nil
}

func (f fakeAPIKeysStore) Insert(_ context.Context, _ storage.APIKeyBinding) error { return nil }

func TestGate_Authorize(t *testing.T) {
	t.Parallel()

	store := fakeAPIKeysStore{hosts: map[string]string{"good-key": "host.example.com"}}
	gate := NewGate(store)

	tests := []struct {
		name     string
		key      string
		wantHost string
		wantErr  error
	}{
		{name: "valid key", key: "good-key", wantHost: "host.example.com"},
		{name: "valid key with whitespace", key: "  good-key  ", wantHost: "host.example.com"},
		{name: "missing key", key: "", wantErr: ErrMissingKey},
		{name: "whitespace only", key: "   ", wantErr: ErrMissingKey},
		{name: "unknown key", key: "bad-key", wantErr: ErrInvalidKey},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			host, err := gate.Authorize(context.Background(), tt.key)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if host != tt.wantHost {
				t.Fatalf("host = %q, want %q", host, tt.wantHost)
			}
		})
	}
}

func TestGate_Authorize_DistinguishesMissingFromInvalid(t *testing.T) {
	t.Parallel()

	gate := NewGate(fakeAPIKeysStore{})

	_, missingErr := gate.Authorize(context.Background(), "")
	_, invalidErr := gate.Authorize(context.Background(), "nope")

	if errors.Is(missingErr, invalidErr) || errors.Is(invalidErr, missingErr) {
		t.Fatal("missing and invalid key cases must be distinct errors")
	}
}

func TestGate_Authorize_StoreFailure(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("connection refused")
	gate := NewGate(fakeAPIKeysStore{err: storeErr})

	_, err := gate.Authorize(context.Background(), "any-key")
	if !errors.Is(err, storeErr) {
		t.Fatalf("store failure should propagate, got %v", err)
	}
	if errors.Is(err, ErrInvalidKey) || errors.Is(err, ErrMissingKey) {
		t.Fatal("store failure must not look like an auth failure")
	}
}

func TestGenerateAPIKey(t *testing.T) {
	t.Parallel()

	a, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != 32 {
		t.Fatalf("key length = %d, want 32", len(a))
	}
	if _, err := base64.RawURLEncoding.DecodeString(a); err != nil {
		t.Fatalf("key is not base64url: %v", err)
	}

	b, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatal("two generated keys are identical")
	}
}
