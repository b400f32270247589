// Package orchestrator decides, per mutation, between sending it now and
// queueing it for later, and reconciles server answers into the local store.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/babysteps/internal/client/api"
	"github.com/dmitrijs2005/babysteps/internal/client/queue"
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/logging"
)

type Result string

const (
	OnlineOK      Result = "online_ok"
	QueuedOffline Result = "queued_offline"
	Rejected      Result = "rejected"
)

// Outcome tells the caller what happened. Entry is set when the mutation was
// queued.
type Outcome struct {
	Result    Result
	IsOffline bool
	Entry     *queue.Entry
}

// Mutation is one logical change. Apply performs the local write; Reconcile
// stores the server's representation; Revert undoes Apply when the server
// rejects the change. All three are optional.
type Mutation struct {
	Collection string
	Op         Op
	EntityID   string
	Payload    any

	Apply     func(ctx context.Context) error
	Reconcile func(ctx context.Context, server json.RawMessage) error
	Revert    func(ctx context.Context) error
}

// Queue is the part of the offline queue the orchestrator needs.
type Queue interface {
	Enqueue(ctx context.Context, typ, entity string, data any) (*queue.Entry, error)
	HasPending(ctx context.Context, entity string) bool
}

// Network reports and receives connectivity state.
type Network interface {
	Online() bool
	ReportFailure(ctx context.Context)
}

type options struct {
	optimistic bool
}

type Option func(*options)

// WithOptimistic controls whether Apply runs before the network attempt.
// Default true.
func WithOptimistic(v bool) Option {
	return func(o *options) { o.optimistic = v }
}

type Orchestrator struct {
	client  api.Client
	queue   Queue
	network Network
	logger  logging.Logger
	locks   keyedMutex
}

func New(client api.Client, q Queue, network Network, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		client:  client,
		queue:   q,
		network: network,
		logger:  logger.With("module", "orchestrator"),
	}
}

// Execute runs m. The error is nil for OnlineOK and for mutations queued
// while offline. A transient failure while online yields QueuedOffline
// together with the original error; callers treat it as a warning.
func (o *Orchestrator) Execute(ctx context.Context, m Mutation, opts ...Option) (Outcome, error) {
	cfg := options{optimistic: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	cmd := Command{Collection: m.Collection, Op: m.Op, ID: m.EntityID}
	if m.Payload != nil {
		raw, err := json.Marshal(m.Payload)
		if err != nil {
			return Outcome{Result: Rejected}, fmt.Errorf("%w: %v", common.ErrValidation, err)
		}
		cmd.Body = raw
	}

	unlock := o.locks.Lock(cmd.Entity())
	defer unlock()

	if cfg.optimistic {
		if err := run(ctx, m.Apply); err != nil {
			return Outcome{Result: Rejected}, err
		}
	}

	if !o.network.Online() || o.queue.HasPending(ctx, cmd.Entity()) {
		return o.enqueue(ctx, m, cmd, !cfg.optimistic, nil)
	}

	resp, err := cmd.Send(ctx, o.client)
	if err == nil {
		if m.Reconcile != nil {
			if rerr := m.Reconcile(ctx, resp); rerr != nil {
				o.logger.Warn(ctx, "reconcile failed", "entity", cmd.Entity(), "error", rerr)
			}
		}
		return Outcome{Result: OnlineOK}, nil
	}

	if api.IsTransient(err) {
		o.network.ReportFailure(ctx)
		return o.enqueue(ctx, m, cmd, !cfg.optimistic, err)
	}

	o.logger.Info(ctx, "mutation rejected", "entity", cmd.Entity(), "op", cmd.Op, "error", err)
	if cfg.optimistic {
		o.revert(ctx, m, cmd)
	}
	return Outcome{Result: Rejected}, err
}

func (o *Orchestrator) enqueue(ctx context.Context, m Mutation, cmd Command, apply bool, cause error) (Outcome, error) {
	if apply {
		if err := run(ctx, m.Apply); err != nil {
			return Outcome{Result: Rejected}, err
		}
	}

	e, err := o.queue.Enqueue(ctx, cmd.Type(), cmd.Entity(), cmd)
	if err != nil {
		o.logger.Error(ctx, "enqueue failed", "entity", cmd.Entity(), "error", err)
		o.revert(ctx, m, cmd)
		return Outcome{Result: Rejected}, errors.Join(err, cause)
	}

	return Outcome{Result: QueuedOffline, IsOffline: true, Entry: e}, cause
}

func (o *Orchestrator) revert(ctx context.Context, m Mutation, cmd Command) {
	if err := run(ctx, m.Revert); err != nil {
		o.logger.Error(ctx, "revert failed", "entity", cmd.Entity(), "error", err)
	}
}

func run(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}
