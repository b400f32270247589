package kv

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/babysteps/internal/client/config"
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// failingBackend fails every operation.
type failingBackend struct{}

var errBoom = errors.New("boom")

func (failingBackend) Name() string                                { return "failing" }
func (failingBackend) Get(context.Context, string) ([]byte, error) { return nil, errBoom }
func (failingBackend) Set(context.Context, string, []byte) error   { return errBoom }
func (failingBackend) Apply(context.Context, Batch) error          { return errBoom }
func (failingBackend) Delete(context.Context, string) error        { return errBoom }
func (failingBackend) Keys(context.Context) ([]string, error)      { return nil, errBoom }
func (failingBackend) Clear(context.Context) error                 { return errBoom }
func (failingBackend) Close() error                                { return nil }

func newFileAdapter(t *testing.T) *Adapter {
	t.Helper()
	b, err := OpenFileBackend(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	return NewAdapter(b, logging.Discard())
}

func TestAdapter_SetGet_RoundTrip(t *testing.T) {
	for name, a := range map[string]*Adapter{
		"file":   newFileAdapter(t),
		"sqlite": NewAdapter(setupSQLite(t), logging.Discard()),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			in := []record{{ID: "1", Name: "Emma"}}

			require.True(t, a.Set(ctx, "babies", in))

			var out []record
			require.True(t, a.Get(ctx, "babies", &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestAdapter_GetMissing_ReportsFalse(t *testing.T) {
	a := newFileAdapter(t)
	var out []record
	assert.False(t, a.Get(context.Background(), "missing", &out))
	assert.Nil(t, out)
}

func TestAdapter_GetUndecodable_ReportsFalse(t *testing.T) {
	a := newFileAdapter(t)
	ctx := context.Background()
	require.True(t, a.Set(ctx, "k", "a string"))

	var out []record
	assert.False(t, a.Get(ctx, "k", &out))
}

func TestAdapter_SetUnencodable_ReportsFalse(t *testing.T) {
	a := newFileAdapter(t)
	assert.False(t, a.Set(context.Background(), "k", make(chan int)))
}

func TestAdapter_SetMany_AppliesAllAndRemoves(t *testing.T) {
	a := newFileAdapter(t)
	ctx := context.Background()
	require.True(t, a.Set(ctx, "old", 1))

	ok := a.SetMany(ctx, map[string]any{"a": 1, "b": "two"}, "old")
	require.True(t, ok)

	assert.Equal(t, []string{"a", "b"}, a.Keys(ctx))
}

func TestAdapter_SetMany_EncodeFailure_WritesNothing(t *testing.T) {
	a := newFileAdapter(t)
	ctx := context.Background()

	ok := a.SetMany(ctx, map[string]any{"a": 1, "b": make(chan int)})
	assert.False(t, ok)
	assert.Empty(t, a.Keys(ctx))
}

func TestAdapter_BackendFailures_AreSwallowed(t *testing.T) {
	a := NewAdapter(failingBackend{}, logging.Discard())
	ctx := context.Background()

	var out record
	assert.False(t, a.Get(ctx, "k", &out))
	assert.False(t, a.Set(ctx, "k", out))
	assert.False(t, a.SetMany(ctx, map[string]any{"k": out}))
	assert.Nil(t, a.Keys(ctx))
	assert.NotPanics(t, func() {
		a.Remove(ctx, "k")
		a.Clear(ctx)
	})
}

func TestOpen_SelectsBackendByPlatform(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		platform config.Platform
		want     string
	}{
		{config.PlatformNative, "sqlite"},
		{config.PlatformWeb, "file"},
		{config.PlatformAuto, "sqlite"},
	}

	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			cfg := &config.Config{DataDir: t.TempDir(), Platform: tt.platform}
			a, err := Open(ctx, cfg, logging.Discard())
			require.NoError(t, err)
			defer a.Close()

			assert.Equal(t, tt.want, a.BackendName())
			assert.True(t, a.Set(ctx, "k", 1))
		})
	}
}

func TestOpen_UnknownPlatform_Errors(t *testing.T) {
	cfg := &config.Config{DataDir: t.TempDir(), Platform: "tv"}
	_, err := Open(context.Background(), cfg, logging.Discard())
	assert.Error(t, err)
}

func TestAdapter_Load_TellsMissingFromUnreadable(t *testing.T) {
	ctx := context.Background()
	a := newFileAdapter(t)
	require.True(t, a.Set(ctx, "bad", "a string"))

	var out []record
	found, err := a.Load(ctx, "missing", &out)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = a.Load(ctx, "bad", &out)
	require.ErrorIs(t, err, common.ErrStorage)
	assert.False(t, found)

	found, err = NewAdapter(failingBackend{}, logging.Discard()).Load(ctx, "k", &out)
	require.ErrorIs(t, err, common.ErrStorage)
	assert.ErrorContains(t, err, "boom")
	assert.False(t, found)
}
