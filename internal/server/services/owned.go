package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/google/uuid"
)

// owned loads the entity with id and checks that userID owns it. Ids that
// are not UUIDs cannot exist and give common.ErrorNotFound.
func owned[T any](ctx context.Context, userID, id string, get func(context.Context, string) (*T, error), ownerOf func(*T) string) (*T, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	v, err := get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ownerOf(v) != userID {
		return nil, common.ErrAuthorization
	}
	return v, nil
}

// replayed returns the entity a repeated create refers to: nil when id is
// unused, the stored value when userID owns it.
func replayed[T any](ctx context.Context, userID, id string, get func(context.Context, string) (*T, error), ownerOf func(*T) string) (*T, error) {
	if id == "" {
		return nil, nil
	}
	v, err := owned(ctx, userID, id, get, ownerOf)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	return v, err
}

// createOnce inserts a new entity unless id already names one. A concurrent
// insert of the same id is resolved by reading the winner back.
func createOnce[T any](ctx context.Context, userID, id string, get func(context.Context, string) (*T, error), ownerOf func(*T) string, create func(context.Context) (*T, error)) (*T, error) {
	if v, err := replayed(ctx, userID, id, get, ownerOf); err != nil || v != nil {
		return v, err
	}
	v, err := create(ctx)
	if errors.Is(err, common.ErrAlreadyExists) {
		return owned(ctx, userID, id, get, ownerOf)
	}
	return v, err
}
