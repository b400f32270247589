package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/babysteps/internal/client/orchestrator"
)

// Executor runs mutations. *orchestrator.Orchestrator implements it.
type Executor interface {
	Execute(ctx context.Context, m orchestrator.Mutation, opts ...orchestrator.Option) (orchestrator.Outcome, error)
}

// mutate executes m and, unless it was rejected, reads back the local value
// the caller should adopt. err may be a warning next to a QueuedOffline
// outcome.
func mutate[T any](ctx context.Context, ex Executor, m orchestrator.Mutation, read func(context.Context) (*T, error), opts ...orchestrator.Option) (*T, orchestrator.Outcome, error) {
	out, err := ex.Execute(ctx, m, opts...)
	if out.Result == orchestrator.Rejected {
		return nil, out, err
	}

	v, rerr := read(ctx)
	if rerr != nil {
		return nil, out, errors.Join(err, rerr)
	}
	return v, out, err
}
