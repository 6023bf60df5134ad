package run

import "context"

type Log interface {
	Append(ctx context.Context, r *Run) error
}

type History interface {
	History(ctx context.Context, checkID string) ([]*Run, error)
}
