package rotator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/NordCoder/Upwatch/internal/auditlog"
	"github.com/NordCoder/Upwatch/internal/domain/notification"
)

var mRotations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rotator_logs_total", Help: "Active logs visited by rotation, by result",
}, []string{"result"})

type Logs interface {
	List(includeCompressed bool) ([]string, error)
	Rotate(logID string, at time.Time) (string, error)
}

type Rotator struct {
	Logs  Logs
	Clock notification.Clock
	log   *zap.Logger
}

func New(logs Logs, clock notification.Clock) *Rotator {
	return &Rotator{
		Logs:  logs,
		Clock: clock,
		log:   zap.L().With(zap.String("component", "rotator")),
	}
}

func (r *Rotator) WithLogger(l *zap.Logger) *Rotator {
	if l == nil {
		return r
	}
	cp := *r
	cp.log = l.With(zap.String("component", "rotator"))
	return &cp
}

// RotateAll compresses and truncates every non-empty active log. A failure on
// one log is logged and does not stop the others.
func (r *Rotator) RotateAll(_ context.Context) error {
	ids, err := r.Logs.List(false)
	if err != nil {
		return fmt.Errorf("list logs: %w", err)
	}
	for _, id := range ids {
		snapshot, err := r.Logs.Rotate(id, r.Clock.Now())
		switch {
		case errors.Is(err, auditlog.ErrEmptyLog):
			mRotations.WithLabelValues("empty").Inc()
		case err != nil:
			mRotations.WithLabelValues("error").Inc()
			r.log.Warn("rotate log", zap.String("log_id", id), zap.Error(err))
		default:
			mRotations.WithLabelValues("rotated").Inc()
			r.log.Debug("log rotated", zap.String("log_id", id), zap.String("snapshot", snapshot))
		}
	}
	return nil
}
