package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/babysteps/internal/client/api"
)

type Op string

const (
	OpCreate   Op = "create"
	OpUpdate   Op = "update"
	OpDelete   Op = "delete"
	OpNotified Op = "notified"
)

// Command is the wire-independent form of a remote mutation. It is what the
// offline queue stores as entry data.
type Command struct {
	Collection string          `json:"collection"`
	Op         Op              `json:"op"`
	ID         string          `json:"id"`
	Body       json.RawMessage `json:"body,omitempty"`
}

// Type is the queue tag of the command, e.g. "babies_create".
func (c Command) Type() string {
	return c.Collection + "_" + string(c.Op)
}

// Entity is the per-record ordering key.
func (c Command) Entity() string {
	return c.Collection + "/" + c.ID
}

// Send performs the command against the server and returns its response
// body, which is empty for deletes.
func (c Command) Send(ctx context.Context, client api.Client) (json.RawMessage, error) {
	var out json.RawMessage
	var body any
	if len(c.Body) > 0 {
		body = c.Body
	}

	switch c.Op {
	case OpCreate:
		if err := client.Create(ctx, c.Collection, body, &out); err != nil {
			return nil, err
		}
	case OpUpdate:
		if err := client.Update(ctx, c.Collection, c.ID, body, &out); err != nil {
			return nil, err
		}
	case OpDelete:
		if err := client.Delete(ctx, c.Collection, c.ID); err != nil {
			return nil, err
		}
	case OpNotified:
		r, err := client.MarkReminderNotified(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(r)
	default:
		return nil, fmt.Errorf("unknown op %q", c.Op)
	}
	return out, nil
}
