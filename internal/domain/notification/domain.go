package notification

import (
	"context"
	"time"
)

type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

type Clock interface {
	Now() time.Time
}
