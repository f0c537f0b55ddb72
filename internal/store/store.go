// Package store persists one ContentDocument per site key. Two backends are
// provided: a JSON file per site on local disk, and a Postgres jsonb table.
package store

import "context"

// Store is the content store contract. Get returns the persisted document (or
// a default when none exists for the key); Put atomically replaces the whole
// stored document. No section- or field-level operations exist at this layer.
type Store interface {
	Get(ctx context.Context, siteKey string) (ContentDocument, error)
	Put(ctx context.Context, siteKey string, doc ContentDocument) error
	Ping(ctx context.Context) error
	Close() error
}
