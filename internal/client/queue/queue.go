// Package queue is the durable offline mutation queue. Entries are replayed
// strictly in insertion order; a failing entry blocks the ones behind it
// unless the server rejected it for good.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/babysteps/internal/client/kv"
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/logging"
)

// Entry is one recorded mutation. Data is a private copy of the payload.
type Entry struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Entity    string          `json:"entity,omitempty"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	Synced    bool            `json:"synced"`
	// Failed marks an entry the server refused for good. Error keeps the
	// reason. A failed entry is neither pending nor synced.
	Failed bool   `json:"failed,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (e Entry) settled() bool { return e.Synced || e.Failed }

// ErrRejected is wrapped by a Replayer when the server refused an entry and
// retrying can never succeed. Flush records the entry as failed and moves on.
var ErrRejected = errors.New("rejected by server")

// Replayer sends one entry to the server.
type Replayer interface {
	Replay(ctx context.Context, e Entry) error
}

// ReplayFunc adapts a function to Replayer.
type ReplayFunc func(ctx context.Context, e Entry) error

func (f ReplayFunc) Replay(ctx context.Context, e Entry) error { return f(ctx, e) }

// FlushReport summarises one Flush run.
type FlushReport struct {
	Replayed  int
	Rejected  int
	Remaining int
	Err       error
}

type Queue struct {
	store  kv.Store
	key    string
	now    func() time.Time
	logger logging.Logger

	mu     sync.Mutex
	lastID int64
}

type Option func(*Queue)

func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

func WithKey(key string) Option {
	return func(q *Queue) { q.key = key }
}

func New(store kv.Store, logger logging.Logger, opts ...Option) *Queue {
	q := &Queue{
		store:  store,
		key:    common.OfflineQueueKey,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.With("module", "queue"),
	}
	for _, o := range opts {
		o(q)
	}
	return q
}

// Enqueue appends a pending entry for data, tagged with typ. entity names
// the affected record (collection/id) and may be empty.
func (q *Queue) Enqueue(ctx context.Context, typ, entity string, data any) (*Entry, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode queue payload: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	e := Entry{
		ID:        fmt.Sprintf("offline_%d_%s", q.nextSeq(now), typ),
		Type:      typ,
		Entity:    entity,
		Data:      raw,
		Timestamp: now,
	}

	entries, err := q.load(ctx)
	if err != nil {
		return nil, err
	}
	entries = append(entries, e)
	if !q.store.Set(ctx, q.key, entries) {
		return nil, common.ErrStorage
	}

	q.logger.Debug(ctx, "enqueued", "id", e.ID, "entity", entity)
	return &e, nil
}

// ListPending returns unsynced entries in insertion order.
func (q *Queue) ListPending(ctx context.Context) []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()

	return pending(q.read(ctx))
}

// ListFailed returns the entries the server rejected, oldest first.
func (q *Queue) ListFailed(ctx context.Context) []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()

	result := []Entry{}
	for _, e := range q.read(ctx) {
		if e.Failed {
			result = append(result, e)
		}
	}
	return result
}

// List returns every entry, synced or not.
func (q *Queue) List(ctx context.Context) []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.read(ctx)
}

// HasPending reports whether an unsynced entry targets entity.
func (q *Queue) HasPending(ctx context.Context, entity string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.read(ctx) {
		if !e.settled() && e.Entity == entity {
			return true
		}
	}
	return false
}

// Flush replays pending entries oldest first, one at a time. An entry the
// replayer rejects is marked failed and the run goes on; any other failure
// stops the run and leaves that entry and everything after it pending.
func (q *Queue) Flush(ctx context.Context, r Replayer) FlushReport {
	q.mu.Lock()
	defer q.mu.Unlock()

	var report FlushReport
	entries, err := q.load(ctx)
	if err != nil {
		report.Err = err
		q.logger.Warn(ctx, "flush skipped, queue unreadable", "error", err)
		return report
	}

	for i := range entries {
		if entries[i].settled() {
			continue
		}
		if err := ctx.Err(); err != nil {
			report.Err = err
			break
		}

		rerr := r.Replay(ctx, entries[i])
		rejected := errors.Is(rerr, ErrRejected)
		if rerr != nil && !rejected {
			q.logger.Warn(ctx, "replay failed, flush stopped", "id", entries[i].ID, "error", rerr)
			report.Err = fmt.Errorf("replay %s: %w", entries[i].ID, rerr)
			break
		}

		if rejected {
			entries[i].Failed = true
			entries[i].Error = rerr.Error()
		} else {
			entries[i].Synced = true
		}
		if !q.store.Set(ctx, q.key, entries) {
			// the server has the change but we could not record it; a later
			// replay is harmless because creates are idempotent
			entries[i].Synced = false
			entries[i].Failed = false
			entries[i].Error = ""
			report.Err = common.ErrStorage
			break
		}
		if rejected {
			q.logger.Warn(ctx, "entry rejected", "id", entries[i].ID, "error", rerr)
			report.Rejected++
		} else {
			report.Replayed++
		}
	}

	report.Remaining = len(pending(entries))
	q.logger.Info(ctx, "flush finished", "replayed", report.Replayed, "rejected", report.Rejected, "remaining", report.Remaining)
	return report
}

// Compact drops settled (synced or failed) entries except the newest
// keepSynced. Pending entries always stay. It returns the number of removed
// entries.
func (q *Queue) Compact(ctx context.Context, keepSynced int) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries, err := q.load(ctx)
	if err != nil {
		return 0
	}

	settled := 0
	for _, e := range entries {
		if e.settled() {
			settled++
		}
	}
	drop := settled - max(keepSynced, 0)
	if drop <= 0 {
		return 0
	}

	kept := make([]Entry, 0, len(entries)-drop)
	removed := 0
	for _, e := range entries {
		if e.settled() && removed < drop {
			removed++
			continue
		}
		kept = append(kept, e)
	}

	if !q.store.Set(ctx, q.key, kept) {
		return 0
	}
	q.logger.Debug(ctx, "compacted", "removed", removed)
	return removed
}

// Replace overwrites the whole queue, used by backup restore.
func (q *Queue) Replace(ctx context.Context, entries []Entry) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if entries == nil {
		entries = []Entry{}
	}
	return q.store.Set(ctx, q.key, entries)
}

// load reads the queue before it is rewritten. An unreadable queue is an
// error so it is never replaced by a shorter list.
func (q *Queue) load(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	found, err := q.store.Load(ctx, q.key, &entries)
	if err != nil {
		return nil, err
	}
	if !found || entries == nil {
		return []Entry{}, nil
	}
	return entries, nil
}

// read is load for callers that only look.
func (q *Queue) read(ctx context.Context) []Entry {
	entries, err := q.load(ctx)
	if err != nil {
		return []Entry{}
	}
	return entries
}

// nextSeq returns a nanosecond stamp strictly greater than the previous one.
func (q *Queue) nextSeq(now time.Time) int64 {
	seq := now.UnixNano()
	if seq <= q.lastID {
		seq = q.lastID + 1
	}
	q.lastID = seq
	return seq
}

func pending(entries []Entry) []Entry {
	result := []Entry{}
	for _, e := range entries {
		if !e.settled() {
			result = append(result, e)
		}
	}
	return result
}
