package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/babysteps/internal/client/api"
	"github.com/dmitrijs2005/babysteps/internal/client/orchestrator"
	"github.com/dmitrijs2005/babysteps/internal/client/queue"
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/logging"
)

// Replayer sends queued commands to the server and reconciles the answers.
//
// Transient failures and an unusable session stop the flush so the entry is
// retried later. Answers that can never succeed (forbidden, invalid, gone)
// undo the optimistic local change and are reported as queue.ErrRejected,
// so the entry is kept as failed instead of blocking the queue. A delete of
// something already gone counts as done.
type Replayer struct {
	client api.Client
	stores Stores
	logger logging.Logger
}

var _ queue.Replayer = (*Replayer)(nil)

func NewReplayer(client api.Client, stores Stores, logger logging.Logger) *Replayer {
	return &Replayer{client: client, stores: stores, logger: logger.With("module", "replay")}
}

func (r *Replayer) Replay(ctx context.Context, e queue.Entry) error {
	var cmd orchestrator.Command
	if err := json.Unmarshal(e.Data, &cmd); err != nil {
		r.logger.Error(ctx, "undecodable entry", "id", e.ID, "error", err)
		return fmt.Errorf("%w: undecodable entry: %v", queue.ErrRejected, err)
	}

	resp, err := cmd.Send(ctx, r.client)
	switch {
	case err == nil:
	case api.IsTransient(err), errors.Is(err, api.ErrUnauthorized):
		return err
	case cmd.Op == orchestrator.OpDelete && errors.Is(err, api.ErrNotFound):
		return nil
	default:
		r.logger.Warn(ctx, "server rejected queued change, undoing it", "id", e.ID, "entity", cmd.Entity(), "error", err)
		if uerr := r.undo(ctx, cmd); uerr != nil {
			r.logger.Warn(ctx, "undo of rejected change incomplete", "id", e.ID, "error", uerr)
		}
		return fmt.Errorf("%w: %v", queue.ErrRejected, err)
	}

	if err := r.stores.Reconcile(ctx, cmd, resp); err != nil {
		r.logger.Warn(ctx, "reconcile after replay failed", "id", e.ID, "error", err)
	}
	return nil
}

// undo reverts the local effect of a refused command. A refused create is
// dropped; anything else takes the server's copy, or is dropped when the
// server has none.
func (r *Replayer) undo(ctx context.Context, cmd orchestrator.Command) error {
	if cmd.Op == orchestrator.OpCreate {
		return r.stores.Discard(ctx, cmd.Collection, cmd.ID)
	}

	server, err := r.fetch(ctx, cmd)
	if err != nil {
		return err
	}
	if server == nil {
		return r.stores.Discard(ctx, cmd.Collection, cmd.ID)
	}
	return r.stores.Reconcile(ctx, orchestrator.Command{Collection: cmd.Collection, Op: orchestrator.OpUpdate, ID: cmd.ID}, server)
}

// fetch returns the server's copy of cmd's record, or nil when it has none.
func (r *Replayer) fetch(ctx context.Context, cmd orchestrator.Command) (json.RawMessage, error) {
	switch cmd.Collection {
	case common.CollectionUsers:
		u, err := r.client.Profile(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(u)
	case common.CollectionSettings:
		var st json.RawMessage
		if err := r.client.List(ctx, cmd.Collection, url.Values{}, &st); err != nil {
			return nil, err
		}
		if len(st) == 0 || string(st) == "null" {
			return nil, nil
		}
		return st, nil
	}

	var items []json.RawMessage
	if err := r.client.List(ctx, cmd.Collection, nil, &items); err != nil {
		return nil, err
	}
	for _, raw := range items {
		var head struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &head); err == nil && head.ID == cmd.ID {
			return raw, nil
		}
	}
	return nil, nil
}
