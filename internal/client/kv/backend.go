package kv

import "context"

// Backend is a byte-level key-value store. Unlike Store it reports errors;
// the Adapter decides what to do with them.
type Backend interface {
	// Name identifies the backend in logs and status output.
	Name() string
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Apply writes every Set entry and removes every Delete key atomically.
	Apply(ctx context.Context, b Batch) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
	Close() error
}

// Batch is a group of writes applied all-or-nothing.
type Batch struct {
	Set    map[string][]byte
	Delete []string
}
