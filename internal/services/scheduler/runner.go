package scheduler

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	mTicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_ticks_total", Help: "Loop iterations started",
	}, []string{"loop"})
	mErr = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_errors_total", Help: "Errors returned by loop jobs",
	}, []string{"loop"})
	mLoopDur = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "scheduler_loop_duration_seconds", Help: "Job duration per tick",
		Buckets: prometheus.DefBuckets,
	}, []string{"loop"})
)

// Job is one iteration of a loop. Its error is logged and never stops the loop.
type Job func(ctx context.Context) error

// Runner calls Job once right away and then on every tick of Every until ctx
// is done.
type Runner struct {
	Log   *zap.Logger
	Name  string
	Every time.Duration
	Job   Job
}

func New(log *zap.Logger, name string, every time.Duration, job Job) *Runner {
	return &Runner{
		Log:   log.With(zap.String("component", "scheduler"), zap.String("loop", name)),
		Name:  name,
		Every: every,
		Job:   job,
	}
}

func (r *Runner) tick(ctx context.Context) {
	ctx, span := otel.Tracer("scheduler").Start(ctx, "scheduler.tick",
		trace.WithAttributes(attribute.String("loop", r.Name)),
	)
	defer span.End()

	start := time.Now()
	mTicks.WithLabelValues(r.Name).Inc()
	if err := r.Job(ctx); err != nil {
		mErr.WithLabelValues(r.Name).Inc()
		span.RecordError(err)
		r.Log.Warn("tick error", zap.Error(err))
	}
	mLoopDur.WithLabelValues(r.Name).Observe(time.Since(start).Seconds())
}

func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.Every)
	defer ticker.Stop()

	r.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}
