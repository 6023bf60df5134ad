package monitor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/NordCoder/Upwatch/internal/domain/check"
	"github.com/NordCoder/Upwatch/internal/domain/notification"
)

func AlertMessage(c *check.Check) string {
	return fmt.Sprintf("Alert: Your check for %s %s is currently %s",
		strings.ToUpper(c.Method), c.Target(), c.State)
}

type Dispatcher struct {
	SMS notification.SMSSender
	log *zap.Logger
}

func NewDispatcher(sms notification.SMSSender) *Dispatcher {
	return &Dispatcher{
		SMS: sms,
		log: zap.L().With(zap.String("component", "monitor.alert")),
	}
}

func (d *Dispatcher) WithLogger(l *zap.Logger) *Dispatcher {
	if l == nil {
		return d
	}
	cp := *d
	cp.log = l.With(zap.String("component", "monitor.alert"))
	return &cp
}

// Dispatch texts the owner of c about its current state. Failures are logged
// and returned; nothing is retried.
func (d *Dispatcher) Dispatch(ctx context.Context, c *check.Check) error {
	msg := AlertMessage(c)
	if err := d.SMS.Send(ctx, c.UserPhone, msg); err != nil {
		mAlerts.WithLabelValues("failed").Inc()
		d.log.Warn("alert not delivered", zap.String("check_id", c.ID), zap.Error(err))
		return fmt.Errorf("send alert: %w", err)
	}
	mAlerts.WithLabelValues("sent").Inc()
	d.log.Debug("alert delivered", zap.String("check_id", c.ID), zap.String("message", msg))
	return nil
}
