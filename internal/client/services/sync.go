package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/babysteps/internal/client/api"
	"github.com/dmitrijs2005/babysteps/internal/client/netmon"
	"github.com/dmitrijs2005/babysteps/internal/client/orchestrator"
	"github.com/dmitrijs2005/babysteps/internal/client/queue"
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/logging"
	"github.com/dmitrijs2005/babysteps/internal/models"
)

// SyncStatus is a snapshot for status displays.
type SyncStatus struct {
	Online  bool
	Pending int
	Logged  int
	// Failed counts queued changes the server refused.
	Failed int
}

// SyncService owns the offline queue flush and the network monitor built
// around it.
type SyncService struct {
	client     api.Client
	queue      *queue.Queue
	stores     Stores
	replayer   *Replayer
	keepSynced int
	monitor    *netmon.Monitor
	logger     logging.Logger
}

func NewSyncService(client api.Client, q *queue.Queue, stores Stores, keepSynced int, logger logging.Logger) *SyncService {
	s := &SyncService{
		client:     client,
		queue:      q,
		stores:     stores,
		replayer:   NewReplayer(client, stores, logger),
		keepSynced: keepSynced,
		logger:     logger.With("module", "sync"),
	}
	s.monitor = netmon.New(s.flush, logger)
	return s
}

func (s *SyncService) Monitor() *netmon.Monitor { return s.monitor }

func (s *SyncService) Queue() *queue.Queue { return s.queue }

// flush drains the queue, compacts the synced tail and marks the monitor
// offline when the server went away mid-run.
func (s *SyncService) flush(ctx context.Context) queue.FlushReport {
	report := s.queue.Flush(ctx, s.replayer)
	if n := s.queue.Compact(ctx, s.keepSynced); n > 0 {
		s.logger.Debug(ctx, "queue compacted", "removed", n)
	}
	if api.IsTransient(report.Err) {
		s.monitor.ReportFailure(ctx)
	}
	return report
}

// Sync flushes the queue now. Concurrent calls share one run.
func (s *SyncService) Sync(ctx context.Context) queue.FlushReport {
	return s.monitor.Flush(ctx)
}

// Resume is called when the app returns to the foreground.
func (s *SyncService) Resume(ctx context.Context) queue.FlushReport {
	if !s.monitor.Online() {
		return queue.FlushReport{Err: netmon.ErrOffline, Remaining: len(s.queue.ListPending(ctx))}
	}
	return s.Sync(ctx)
}

// Watch keeps the monitor up to date until ctx is done.
func (s *SyncService) Watch(ctx context.Context, interval time.Duration, p netmon.Pinger) {
	s.monitor.Watch(ctx, interval, p)
}

func (s *SyncService) Status(ctx context.Context) SyncStatus {
	return SyncStatus{
		Online:  s.monitor.Online(),
		Pending: len(s.queue.ListPending(ctx)),
		Logged:  len(s.queue.List(ctx)),
		Failed:  len(s.queue.ListFailed(ctx)),
	}
}

// Pull copies the owner's server data into the local store. Records with
// queued local changes are skipped so pending edits are not clobbered.
func (s *SyncService) Pull(ctx context.Context, ownerID string) error {
	if !s.monitor.Online() {
		return netmon.ErrOffline
	}

	err := s.pull(ctx, ownerID)
	if api.IsTransient(err) {
		s.monitor.ReportFailure(ctx)
	}
	return err
}

func (s *SyncService) pull(ctx context.Context, ownerID string) error {
	var bs []models.Baby
	if err := s.client.List(ctx, common.CollectionBabies, nil, &bs); err != nil {
		return fmt.Errorf("pull babies: %w", err)
	}
	var as []models.Activity
	if err := s.client.List(ctx, common.CollectionActivities, nil, &as); err != nil {
		return fmt.Errorf("pull activities: %w", err)
	}
	var rs []models.Reminder
	if err := s.client.List(ctx, common.CollectionReminders, nil, &rs); err != nil {
		return fmt.Errorf("pull reminders: %w", err)
	}
	var st models.Settings
	if err := s.client.List(ctx, common.CollectionSettings, url.Values{}, &st); err != nil {
		return fmt.Errorf("pull settings: %w", err)
	}

	var errs []error
	for _, b := range bs {
		if s.pending(ctx, common.CollectionBabies, b.ID) {
			continue
		}
		errs = append(errs, s.stores.Babies.Put(ctx, b))
	}
	for _, a := range as {
		if s.pending(ctx, common.CollectionActivities, a.ID) {
			continue
		}
		errs = append(errs, s.stores.Activities.Put(ctx, a))
	}
	for _, r := range rs {
		if s.pending(ctx, common.CollectionReminders, r.ID) {
			continue
		}
		errs = append(errs, s.stores.Reminders.Put(ctx, r))
	}
	if !s.pending(ctx, common.CollectionSettings, ownerID) {
		errs = append(errs, s.stores.Settings.Put(ctx, ownerID, st))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("pull store: %w", err)
	}
	s.logger.Info(ctx, "pulled server data", "babies", len(bs), "activities", len(as), "reminders", len(rs))
	return nil
}

func (s *SyncService) pending(ctx context.Context, collection, id string) bool {
	return s.queue.HasPending(ctx, orchestrator.Command{Collection: collection, ID: id}.Entity())
}
