package monitor

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/NordCoder/Upwatch/internal/domain/check"
)

// Cycle fans one probe cycle out to a goroutine per check. It does not wait for
// the pipelines it starts, so consecutive cycles may overlap.
type Cycle struct {
	Checks  check.Repo
	Handler *Handler

	wg sync.WaitGroup
}

func NewCycle(checks check.Repo, h *Handler) *Cycle {
	return &Cycle{Checks: checks, Handler: h}
}

// Tick lists every stored check and starts its pipeline. Started pipelines
// outlive ctx.
func (c *Cycle) Tick(ctx context.Context) (int, error) {
	ctx, span := otel.Tracer("monitor.uc").Start(ctx, "monitor.cycle")
	defer span.End()

	ids, err := c.Checks.List(ctx)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("list checks: %w", err)
	}
	span.SetAttributes(attribute.Int("cycle.checks", len(ids)))

	pctx := context.WithoutCancel(ctx)
	for _, id := range ids {
		c.wg.Add(1)
		mDispatched.Inc()
		go func(id string) {
			defer c.wg.Done()
			c.Handler.HandleCheck(pctx, id)
		}(id)
	}
	return len(ids), nil
}

// Wait blocks until every started pipeline finished or ctx is done.
func (c *Cycle) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
