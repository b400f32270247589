package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/babysteps/internal/client/local"
	"github.com/dmitrijs2005/babysteps/internal/client/orchestrator"
	"github.com/dmitrijs2005/babysteps/internal/client/repositories/activities"
	"github.com/dmitrijs2005/babysteps/internal/client/repositories/babies"
	"github.com/dmitrijs2005/babysteps/internal/client/repositories/reminders"
	"github.com/dmitrijs2005/babysteps/internal/client/repositories/settings"
	"github.com/dmitrijs2005/babysteps/internal/client/repositories/users"
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/models"
)

// Stores groups the local repositories of one session.
type Stores struct {
	Users      users.Repository
	Babies     babies.Repository
	Activities activities.Repository
	Settings   settings.Repository
	Reminders  reminders.Repository
}

func NewStores(lc *local.Context) Stores {
	return Stores{
		Users:      users.NewKVRepository(lc),
		Babies:     babies.NewKVRepository(lc),
		Activities: activities.NewKVRepository(lc),
		Settings:   settings.NewKVRepository(lc),
		Reminders:  reminders.NewKVRepository(lc),
	}
}

// Reconcile overwrites the local copy of cmd's entity with the server's
// representation. Deletes and empty answers leave local state alone.
func (s Stores) Reconcile(ctx context.Context, cmd orchestrator.Command, server json.RawMessage) error {
	if cmd.Op == orchestrator.OpDelete || len(server) == 0 {
		return nil
	}

	switch cmd.Collection {
	case common.CollectionBabies:
		var b models.Baby
		if err := json.Unmarshal(server, &b); err != nil {
			return fmt.Errorf("decode baby: %w", err)
		}
		return s.Babies.Put(ctx, b)
	case common.CollectionActivities:
		var a models.Activity
		if err := json.Unmarshal(server, &a); err != nil {
			return fmt.Errorf("decode activity: %w", err)
		}
		return s.Activities.Put(ctx, a)
	case common.CollectionReminders:
		var r models.Reminder
		if err := json.Unmarshal(server, &r); err != nil {
			return fmt.Errorf("decode reminder: %w", err)
		}
		return s.Reminders.Put(ctx, r)
	case common.CollectionSettings:
		var st models.Settings
		if err := json.Unmarshal(server, &st); err != nil {
			return fmt.Errorf("decode settings: %w", err)
		}
		return s.Settings.Put(ctx, cmd.ID, st)
	case common.CollectionUsers:
		var u models.User
		if err := json.Unmarshal(server, &u); err != nil {
			return fmt.Errorf("decode user: %w", err)
		}
		return s.Users.Put(ctx, u)
	default:
		return fmt.Errorf("unknown collection %q", cmd.Collection)
	}
}

// Discard drops the local copy of a record in collection. Collections with
// nothing to drop (users, settings) are left alone.
func (s Stores) Discard(ctx context.Context, collection, id string) error {
	switch collection {
	case common.CollectionBabies:
		return s.Babies.Remove(ctx, id)
	case common.CollectionActivities:
		return s.Activities.Remove(ctx, id)
	case common.CollectionReminders:
		return s.Reminders.Remove(ctx, id)
	case common.CollectionUsers, common.CollectionSettings:
		return nil
	default:
		return fmt.Errorf("unknown collection %q", collection)
	}
}

// reconcileFor binds Reconcile to one command for use in a Mutation.
func (s Stores) reconcileFor(collection string, op orchestrator.Op, id string) func(context.Context, json.RawMessage) error {
	cmd := orchestrator.Command{Collection: collection, Op: op, ID: id}
	return func(ctx context.Context, server json.RawMessage) error {
		return s.Reconcile(ctx, cmd, server)
	}
}
