package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/dmitrijs2005/babysteps/internal/filex"
)

// FileBackend mirrors browser local storage: one JSON object of string
// values, rewritten atomically on every change.
type FileBackend struct {
	path string

	mu   sync.Mutex
	data map[string]string
}

// OpenFileBackend loads path, or starts empty when it does not exist yet.
func OpenFileBackend(path string) (*FileBackend, error) {
	b := &FileBackend{path: path, data: map[string]string{}}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read local storage %s: %w", path, err)
	}
	if len(raw) == 0 {
		return b, nil
	}
	if err := json.Unmarshal(raw, &b.data); err != nil {
		return nil, fmt.Errorf("failed to parse local storage %s: %w", path, err)
	}
	return b, nil
}

func (b *FileBackend) Name() string { return "file" }

func (b *FileBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	v, ok := b.data[key]
	if !ok {
		return nil, nil
	}
	return []byte(v), nil
}

func (b *FileBackend) Set(ctx context.Context, key string, value []byte) error {
	return b.Apply(ctx, Batch{Set: map[string][]byte{key: value}})
}

func (b *FileBackend) Apply(ctx context.Context, batch Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	next := maps.Clone(b.data)
	for k, v := range batch.Set {
		next[k] = string(v)
	}
	for _, k := range batch.Delete {
		delete(next, k)
	}
	return b.commit(next)
}

func (b *FileBackend) Delete(ctx context.Context, key string) error {
	return b.Apply(ctx, Batch{Delete: []string{key}})
}

func (b *FileBackend) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return slices.Sorted(maps.Keys(b.data)), nil
}

func (b *FileBackend) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return b.commit(map[string]string{})
}

func (b *FileBackend) Close() error { return nil }

// commit persists next and only then makes it the visible state.
func (b *FileBackend) commit(next map[string]string) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode local storage: %w", err)
	}
	if err := filex.WriteFileAtomic(b.path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write local storage: %w", err)
	}
	b.data = next
	return nil
}
