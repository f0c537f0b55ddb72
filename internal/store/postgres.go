package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PostgresStore keeps one jsonb row per site key. This is the hosted-database
// option (Supabase exposes a plain Postgres connection string).
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the content table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS site_content (
    site_key   TEXT PRIMARY KEY,
    data       JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`)
	if err != nil {
		return fmt.Errorf("ensure site_content table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, siteKey string) (ContentDocument, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM site_content WHERE site_key = $1`, siteKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		doc := DefaultDocument()
		if err := s.Put(ctx, siteKey, doc); err != nil {
			return ContentDocument{}, err
		}
		return doc, nil
	}
	if err != nil {
		return ContentDocument{}, fmt.Errorf("select site %s: %w", siteKey, err)
	}

	var doc ContentDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ContentDocument{}, fmt.Errorf("decode site %s: %w", siteKey, err)
	}
	return doc, nil
}

// Put replaces the whole stored document. The single-row upsert is atomic, so
// concurrent callers never expose a partial write to a subsequent Get.
func (s *PostgresStore) Put(ctx context.Context, siteKey string, doc ContentDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal site %s: %w", siteKey, err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO site_content (site_key, data, updated_at) VALUES ($1, $2, now())
ON CONFLICT (site_key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		siteKey, payload)
	if err != nil {
		return fmt.Errorf("upsert site %s: %w", siteKey, err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
