package secrets

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/crustymonkey/gauth-server/internal/storage"
)

type memSecretsStore struct {
	mu      sync.Mutex
	records map[string]storage.SecretRecord
	nextID  int64
	err     error
}

func newMemSecretsStore() *memSecretsStore {
	return &memSecretsStore{records: make(map[string]storage.SecretRecord)}
}

func (m *memSecretsStore) Create(_ context.Context, ident, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.records[ident]; ok {
		return storage.ErrDuplicateIdent
	}
	m.nextID++
	m.records[ident] = storage.SecretRecord{ID: m.nextID, Ident: ident, Secret: secret}
	return nil
}

func (m *memSecretsStore) Delete(_ context.Context, ident string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.records[ident]; !ok {
		return false, nil
	}
	delete(m.records, ident)
	return true, nil
}

func (m *memSecretsStore) GetByIdent(_ context.Context, ident string) (storage.SecretRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return storage.SecretRecord{}, m.err
	}
	rec, ok := m.records[ident]
	if !ok {
		return storage.SecretRecord{}, storage.ErrNotFound
	}
	return rec, nil
}

func TestManager_CreateAndLookup(t *testing.T) {
	t.Parallel()

	store := newMemSecretsStore()
	mgr := NewManager(store, 20)

	secret, err := mgr.Create(context.Background(), "svc-a")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(secret) != 32 {
		t.Fatalf("secret length = %d, want 32 for 20 raw bytes", len(secret))
	}

	rec, err := mgr.Lookup(context.Background(), "svc-a")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if rec.Secret != secret {
		t.Fatalf("stored secret %q does not match returned secret %q", rec.Secret, secret)
	}
}

func TestManager_Create_DuplicateIdent(t *testing.T) {
	t.Parallel()

	store := newMemSecretsStore()
	mgr := NewManager(store, 20)

	first, err := mgr.Create(context.Background(), "dup")
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	if _, err := mgr.Create(context.Background(), "dup"); !errors.Is(err, storage.ErrDuplicateIdent) {
		t.Fatalf("second create err = %v, want ErrDuplicateIdent", err)
	}

	// The original record must be untouched.
	rec, err := mgr.Lookup(context.Background(), "dup")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if rec.Secret != first {
		t.Fatal("duplicate create altered the stored secret")
	}
	if len(store.records) != 1 {
		t.Fatalf("store holds %d records, want 1", len(store.records))
	}
}

func TestManager_Create_StoreFailure(t *testing.T) {
	t.Parallel()

	store := newMemSecretsStore()
	store.err = errors.New("connection reset")
	mgr := NewManager(store, 20)

	_, err := mgr.Create(context.Background(), "svc-a")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, storage.ErrDuplicateIdent) {
		t.Fatal("store failure must not be reported as a duplicate")
	}
}

func TestManager_Create_InvalidLength(t *testing.T) {
	t.Parallel()

	mgr := NewManager(newMemSecretsStore(), 0)
	if _, err := mgr.Create(context.Background(), "svc-a"); err == nil {
		t.Fatal("expected error for zero secret length")
	}
}

func TestManager_Delete_Idempotent(t *testing.T) {
	t.Parallel()

	store := newMemSecretsStore()
	mgr := NewManager(store, 20)

	if _, err := mgr.Create(context.Background(), "keep"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := mgr.Create(context.Background(), "gone"); err != nil {
		t.Fatalf("create: %v", err)
	}

	removed, err := mgr.Delete(context.Background(), "gone")
	if err != nil || !removed {
		t.Fatalf("first delete: removed=%v err=%v", removed, err)
	}

	// Deleting again (or deleting an ident that never existed) is success.
	removed, err = mgr.Delete(context.Background(), "gone")
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if removed {
		t.Fatal("second delete reported a removed row")
	}

	removed, err = mgr.Delete(context.Background(), "never-existed")
	if err != nil || removed {
		t.Fatalf("delete of unknown ident: removed=%v err=%v", removed, err)
	}

	// Other records are untouched.
	if _, err := mgr.Lookup(context.Background(), "keep"); err != nil {
		t.Fatalf("unrelated record was affected: %v", err)
	}
}

func TestManager_Lookup_NotFound(t *testing.T) {
	t.Parallel()

	mgr := NewManager(newMemSecretsStore(), 20)
	if _, err := mgr.Lookup(context.Background(), "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
