package kv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/logging"
)

// Store is the JSON view of the local store used by repositories and the
// offline queue.
type Store interface {
	// Get decodes the value at key into dst. It reports false when the key is
	// absent or the value cannot be read or decoded.
	Get(ctx context.Context, key string, dst any) bool
	// Load decodes the value at key into dst. It reports (false, nil) when
	// the key is absent and wraps common.ErrStorage when the value cannot be
	// read or decoded. Read-modify-write paths use it so a failed read is
	// never mistaken for an empty value.
	Load(ctx context.Context, key string, dst any) (bool, error)
	// Set encodes value and stores it at key.
	Set(ctx context.Context, key string, value any) bool
	// SetMany stores every value and removes every listed key atomically.
	SetMany(ctx context.Context, values map[string]any, remove ...string) bool
	Remove(ctx context.Context, key string)
	Clear(ctx context.Context)
	Keys(ctx context.Context) []string
}

type Adapter struct {
	backend Backend
	logger  logging.Logger
}

var _ Store = (*Adapter)(nil)

func NewAdapter(backend Backend, logger logging.Logger) *Adapter {
	return &Adapter{
		backend: backend,
		logger:  logger.With("component", "kv", "backend", backend.Name()),
	}
}

// BackendName reports which backend is in use.
func (a *Adapter) BackendName() string {
	return a.backend.Name()
}

func (a *Adapter) Get(ctx context.Context, key string, dst any) bool {
	found, err := a.Load(ctx, key, dst)
	return found && err == nil
}

func (a *Adapter) Load(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := a.backend.Get(ctx, key)
	if err != nil {
		a.logger.Error(ctx, "read failed", "key", key, "error", err)
		return false, fmt.Errorf("%w: read %s: %v", common.ErrStorage, key, err)
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		a.logger.Error(ctx, "decode failed", "key", key, "error", err)
		return false, fmt.Errorf("%w: decode %s: %v", common.ErrStorage, key, err)
	}
	return true, nil
}

func (a *Adapter) Set(ctx context.Context, key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		a.logger.Error(ctx, "encode failed", "key", key, "error", err)
		return false
	}
	if err := a.backend.Set(ctx, key, raw); err != nil {
		a.logger.Error(ctx, "write failed", "key", key, "error", err)
		return false
	}
	return true
}

func (a *Adapter) SetMany(ctx context.Context, values map[string]any, remove ...string) bool {
	batch := Batch{Set: make(map[string][]byte, len(values)), Delete: remove}
	for key, value := range values {
		raw, err := json.Marshal(value)
		if err != nil {
			a.logger.Error(ctx, "encode failed", "key", key, "error", err)
			return false
		}
		batch.Set[key] = raw
	}
	if err := a.backend.Apply(ctx, batch); err != nil {
		a.logger.Error(ctx, "batch write failed", "keys", len(values), "removed", len(remove), "error", err)
		return false
	}
	return true
}

func (a *Adapter) Remove(ctx context.Context, key string) {
	if err := a.backend.Delete(ctx, key); err != nil {
		a.logger.Error(ctx, "remove failed", "key", key, "error", err)
	}
}

func (a *Adapter) Clear(ctx context.Context) {
	if err := a.backend.Clear(ctx); err != nil {
		a.logger.Error(ctx, "clear failed", "error", err)
	}
}

func (a *Adapter) Keys(ctx context.Context) []string {
	keys, err := a.backend.Keys(ctx)
	if err != nil {
		a.logger.Error(ctx, "list keys failed", "error", err)
		return nil
	}
	return keys
}

func (a *Adapter) Close() error {
	return a.backend.Close()
}
