package kafka

import (
	"context"
	"time"

	"github.com/NordCoder/Upwatch/internal/domain/check"
)

type TransitionEvents interface {
	PublishStatusChanged(ctx context.Context, checkID string, old, new check.State, at time.Time) error
}
