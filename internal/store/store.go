package store

import (
	"context"

	"github.com/me/credsched/pkg/model"
)

// Store keeps completed simulation runs for the lifetime of the server.
type Store interface {
	// Run operations
	CreateRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRuns(ctx context.Context, opts model.ListOptions) ([]*model.Run, int, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
