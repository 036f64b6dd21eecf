package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/crustymonkey/gauth-server/internal/storage"
)

// uniqueViolation is the SQLSTATE Postgres reports when an insert hits a
// unique constraint.
const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) HostForKey(ctx context.Context, apiKey string) (string, error) {
	var host string
	err := s.db.QueryRowContext(ctx, `
SELECT host
FROM api_keys
WHERE api_key = $1`,
		apiKey,
	).Scan(&host)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get host for api key: %w", err)
	}
	return host, nil
}

func (s *Store) Insert(ctx context.Context, b storage.APIKeyBinding) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO api_keys (host, api_key)
VALUES ($1, $2)`,
		b.Host,
		b.APIKey,
	)
	if err != nil {
		return fmt.Errorf("insert api key: %w", err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, ident, secret string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO secrets (ident, secret)
VALUES ($1, $2)`,
		ident,
		secret,
	)
	if isUniqueViolation(err) {
		return storage.ErrDuplicateIdent
	}
	if err != nil {
		return fmt.Errorf("insert secret: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, ident string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM secrets WHERE ident = $1`, ident)
	if err != nil {
		return false, fmt.Errorf("delete secret: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete secret rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *Store) GetByIdent(ctx context.Context, ident string) (storage.SecretRecord, error) {
	var rec storage.SecretRecord
	err := s.db.QueryRowContext(ctx, `
SELECT id, ident, secret, created_at
FROM secrets
WHERE ident = $1`,
		ident,
	).Scan(&rec.ID, &rec.Ident, &rec.Secret, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.SecretRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.SecretRecord{}, fmt.Errorf("get secret: %w", err)
	}
	return rec, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
