package store

import (
	"context"
	"errors"

	"github.com/astrocore-app/astrocore/internal/model"
)

var ErrNotFound = errors.New("store: not found")

// ListFilter narrows a List call. Zero value lists everything, newest first.
type ListFilter struct {
	Type      model.TaskType
	Completed *bool
	Limit     int
	Offset    int
}

type Repository interface {
	Create(ctx context.Context, in model.Task) error
	Get(ctx context.Context, id string) (model.Task, error)
	Update(ctx context.Context, in model.Task) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]model.Task, error)
}
