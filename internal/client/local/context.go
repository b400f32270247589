// Package local holds the explicit application context shared by the client
// repositories, the offline queue and the orchestrator. One Context exists
// per session; tests build their own.
package local

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/babysteps/internal/client/kv"
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/logging"
	"github.com/google/uuid"
)

// Key suffixes under the namespace.
const (
	KeyUsers       = "users"
	KeyBabies      = "babies"
	KeyActivities  = "activities"
	KeySettings    = "settings"
	KeyReminders   = "reminders"
	KeyCurrentUser = "current_user"
	KeySessionKey  = "session_key"
	KeyTokens      = "tokens"
)

// Context bundles the store with the clock, id source and logger used by
// every repository. Repository writes hold its lock, so a read never sees a
// half-applied change spanning several keys.
type Context struct {
	Store     kv.Store
	Namespace string
	Now       func() time.Time
	NewID     func() string
	Logger    logging.Logger

	mu sync.Mutex
}

type Option func(*Context)

func WithNamespace(ns string) Option {
	return func(c *Context) { c.Namespace = ns }
}

func WithClock(now func() time.Time) Option {
	return func(c *Context) { c.Now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(c *Context) { c.NewID = newID }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Context) { c.Logger = l }
}

func New(store kv.Store, opts ...Option) *Context {
	c := &Context{
		Store:     store,
		Namespace: common.DefaultNamespace,
		Now:       func() time.Time { return time.Now().UTC() },
		NewID:     uuid.NewString,
		Logger:    logging.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Key returns the namespaced store key for name.
func (c *Context) Key(name string) string {
	return c.Namespace + "_" + name
}

// Lock serialises repository read-modify-write cycles.
func (c *Context) Lock()   { c.mu.Lock() }
func (c *Context) Unlock() { c.mu.Unlock() }

// ReadMap reads the map stored under name for display. A missing or
// unreadable value yields an empty map.
func ReadMap[T any](ctx context.Context, c *Context, name string) map[string]T {
	m, err := LoadMap[T](ctx, c, name)
	if err != nil {
		return map[string]T{}
	}
	return m
}

// LoadMap reads the map stored under name before it is modified. A missing
// value yields an empty map; a value that cannot be read or decoded is an
// error wrapping common.ErrStorage, and the caller must not write back.
func LoadMap[T any](ctx context.Context, c *Context, name string) (map[string]T, error) {
	m := map[string]T{}
	found, err := c.Store.Load(ctx, c.Key(name), &m)
	if err != nil {
		return nil, err
	}
	if !found || m == nil {
		return map[string]T{}, nil
	}
	return m, nil
}

// SaveMap writes m under name and reports whether it was persisted.
func SaveMap[T any](ctx context.Context, c *Context, name string, m map[string]T) bool {
	return c.Store.Set(ctx, c.Key(name), m)
}
