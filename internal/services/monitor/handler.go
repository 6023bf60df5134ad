package monitor

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/NordCoder/Upwatch/internal/domain/check"
	"github.com/NordCoder/Upwatch/internal/domain/kafka"
	"github.com/NordCoder/Upwatch/internal/domain/notification"
	"github.com/NordCoder/Upwatch/internal/domain/run"
	"github.com/NordCoder/Upwatch/internal/obs"
)

type Handler struct {
	Checks check.Repo
	Runs   run.Log
	Alerts *Dispatcher
	Events kafka.TransitionEvents // optional
	Clock  notification.Clock
	Probe  Prober

	log *zap.Logger
}

func (h *Handler) WithLogger(l *zap.Logger) *Handler {
	if l == nil {
		return h
	}
	cp := *h
	cp.log = l.With(zap.String("component", "monitor.handler"))
	return &cp
}

func (h *Handler) logger() *zap.Logger {
	if h.log == nil {
		return zap.L().With(zap.String("component", "monitor.handler"))
	}
	return h.log
}

// HandleCheck runs the whole pipeline for one check id. Every failure ends
// here as a log line; nothing is returned to the caller.
func (h *Handler) HandleCheck(ctx context.Context, checkID string) {
	ctx, span := otel.Tracer("monitor.handler").Start(ctx, "monitor.check",
		trace.WithAttributes(attribute.String("check.id", checkID)),
	)
	defer span.End()
	log := obs.WithTrace(ctx, h.logger(), zap.String("check_id", checkID))

	raw, err := h.Checks.Read(ctx, checkID)
	if err != nil {
		mSkipped.WithLabelValues("read").Inc()
		span.RecordError(err)
		log.Warn("read check", zap.Error(err))
		return
	}
	chk, err := Validate(raw)
	if err != nil {
		mSkipped.WithLabelValues("invalid").Inc()
		var ve *ValidationError
		if errors.As(err, &ve) {
			span.SetAttributes(attribute.String("check.invalid_field", ve.Field))
		}
		log.Debug("skip invalid check", zap.Error(err))
		return
	}

	outcome := h.Probe.Probe(ctx, chk)
	if outcome.Failed() {
		mProbeErrors.WithLabelValues(string(outcome.Error.Kind)).Inc()
	}
	state, alert := Classify(chk, outcome)
	mProbes.WithLabelValues(string(state)).Inc()
	span.SetAttributes(
		attribute.String("check.state", string(state)),
		attribute.Bool("check.alert", alert),
		attribute.Int("probe.response_code", outcome.ResponseCode),
	)

	now := h.Clock.Now().UTC().Truncate(time.Millisecond)

	entry := &run.Run{Check: *chk, Outcome: outcome, State: state, AlertWarranted: alert, Timestamp: now}
	defer func() {
		if err := h.Runs.Append(ctx, entry); err != nil {
			mFailures.WithLabelValues("audit").Inc()
			log.Warn("append audit log", zap.Error(err))
		}
	}()

	updated := *chk
	updated.State = state
	updated.LastChecked = &now
	if err := h.Checks.Update(ctx, &updated); err != nil {
		mFailures.WithLabelValues("persist").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist")
		log.Warn("persist check state", zap.Error(err))
		return
	}

	if !alert {
		return
	}
	mTransitions.Inc()
	log.Info("state changed", zap.String("old", string(chk.State)), zap.String("new", string(state)))

	if h.Alerts != nil {
		entry.Alert = h.Alerts.Dispatch(ctx, &updated) == nil
	}
	if h.Events != nil {
		if err := h.Events.PublishStatusChanged(ctx, chk.ID, chk.State, state, now); err != nil {
			mFailures.WithLabelValues("event").Inc()
			log.Warn("publish status change", zap.Error(err))
		}
	}
}
