package services

import (
	"context"
	"encoding/json"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/babysteps/internal/client/api"
	"github.com/dmitrijs2005/babysteps/internal/client/kv"
	"github.com/dmitrijs2005/babysteps/internal/client/local"
	"github.com/dmitrijs2005/babysteps/internal/client/orchestrator"
	"github.com/dmitrijs2005/babysteps/internal/client/queue"
	"github.com/dmitrijs2005/babysteps/internal/logging"
	"github.com/dmitrijs2005/babysteps/internal/models"
	"github.com/stretchr/testify/require"
)

/*************
 * Fakes
 *************/

var (
	errDown      = &api.StatusError{Code: 503, Message: "down"}
	errForbidden = &api.StatusError{Code: 403, Message: "forbidden"}
	errGone      = &api.StatusError{Code: 404, Message: "not found"}
	errExpired   = &api.StatusError{Code: 401, Message: "token expired"}
)

// fakeClient records every call as "<verb> <collection>[/<id>]". Errors and
// answers are looked up by that string; errAll applies to every data call.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	errAll    error
	errs      map[string]error
	responses map[string]json.RawMessage
	lists     map[string]any

	registerErr error
	loginErr    error
	profile     *models.User
	registered  []models.RegisterInput

	tokens      models.TokenPair
	uploadURL   string
	downloadURL string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		errs:      map[string]error{},
		responses: map[string]json.RawMessage{},
		lists:     map[string]any{},
	}
}

func (f *fakeClient) call(name string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if f.errAll != nil {
		return nil, f.errAll
	}
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	return f.responses[name], nil
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

func (f *fakeClient) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errAll = err
}

func decodeInto(raw json.RawMessage, out any) error {
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (f *fakeClient) Register(_ context.Context, in models.RegisterInput) (*models.TokenPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "register "+in.Email)
	if f.errAll != nil {
		return nil, f.errAll
	}
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	f.registered = append(f.registered, in)
	f.tokens = models.TokenPair{AccessToken: "access-" + in.ID, RefreshToken: "refresh", TokenType: "bearer"}
	tp := f.tokens
	return &tp, nil
}

func (f *fakeClient) Login(_ context.Context, email, _ string) (*models.TokenPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "login "+email)
	if f.errAll != nil {
		return nil, f.errAll
	}
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.tokens = models.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "bearer"}
	tp := f.tokens
	return &tp, nil
}

func (f *fakeClient) Profile(context.Context) (*models.User, error) {
	if _, err := f.call("profile"); err != nil {
		return nil, err
	}
	u := *f.profile
	return &u, nil
}

func (f *fakeClient) Ping(context.Context) error {
	_, err := f.call("ping")
	return err
}

func (f *fakeClient) List(_ context.Context, collection string, _ url.Values, out any) error {
	if _, err := f.call("list " + collection); err != nil {
		return err
	}
	raw, err := json.Marshal(f.lists[collection])
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (f *fakeClient) Create(_ context.Context, collection string, _, out any) error {
	raw, err := f.call("create " + collection)
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

func (f *fakeClient) Update(_ context.Context, collection, id string, _, out any) error {
	raw, err := f.call("update " + collection + "/" + id)
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

func (f *fakeClient) Delete(_ context.Context, collection, id string) error {
	_, err := f.call("delete " + collection + "/" + id)
	return err
}

func (f *fakeClient) MarkReminderNotified(_ context.Context, id string) (*models.Reminder, error) {
	raw, err := f.call("notified reminders/" + id)
	if err != nil {
		return nil, err
	}
	var r models.Reminder
	if err := decodeInto(raw, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (f *fakeClient) BackupUploadURL(context.Context) (string, string, error) {
	if _, err := f.call("upload-url"); err != nil {
		return "", "", err
	}
	return "backups/user/1.json", f.uploadURL, nil
}

func (f *fakeClient) BackupDownloadURL(_ context.Context, key string) (string, error) {
	if _, err := f.call("download-url " + key); err != nil {
		return "", err
	}
	return f.downloadURL, nil
}

func (f *fakeClient) Tokens() models.TokenPair {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens
}

func (f *fakeClient) SetTokens(tp models.TokenPair) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = tp
}

func countPrefix(calls []string, prefix string) int {
	n := 0
	for _, c := range calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

/*************
 * Harness
 *************/

type harness struct {
	lc     *local.Context
	stores Stores
	client *fakeClient
	queue  *queue.Queue
	sync   *SyncService
	orch   *orchestrator.Orchestrator
}

func newHarness(t *testing.T, online bool) *harness {
	t.Helper()
	b, err := kv.OpenFileBackend(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	store := kv.NewAdapter(b, logging.Discard())
	t.Cleanup(func() { _ = store.Close() })

	lc := local.New(store)
	h := &harness{
		lc:     lc,
		stores: NewStores(lc),
		client: newFakeClient(),
		queue:  queue.New(store, logging.Discard()),
	}
	h.sync = NewSyncService(h.client, h.queue, h.stores, 50, logging.Discard())
	h.orch = orchestrator.New(h.client, h.queue, h.sync.Monitor(), logging.Discard())
	if !online {
		h.sync.Monitor().SetOnline(context.Background(), false)
	}
	return h
}

// owner registers a local user directly in the store.
func (h *harness) owner(t *testing.T, email string) string {
	t.Helper()
	u, err := h.stores.Users.Register(context.Background(), models.RegisterInput{Email: email, Password: "secret1", Name: "Parent"})
	require.NoError(t, err)
	return u.ID
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}
