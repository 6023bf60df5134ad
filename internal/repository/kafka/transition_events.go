package kafka

import (
	"context"
	"time"

	"github.com/NordCoder/Upwatch/internal/domain/check"
	"github.com/NordCoder/Upwatch/internal/domain/kafka"
)

type StatusChanged struct {
	CheckID string      `json:"check_id"`
	Old     check.State `json:"old"`
	New     check.State `json:"new"`
	At      time.Time   `json:"at"`
}

type TransitionEventsKafka struct {
	p *Producer
}

func NewTransitionEventsKafka(p *Producer) *TransitionEventsKafka {
	return &TransitionEventsKafka{p: p}
}

var _ kafka.TransitionEvents = (*TransitionEventsKafka)(nil)

func (e *TransitionEventsKafka) PublishStatusChanged(ctx context.Context, checkID string, old, new check.State, at time.Time) error {
	return e.p.PublishJSON(ctx, []byte(checkID), StatusChanged{
		CheckID: checkID,
		Old:     old,
		New:     new,
		At:      at.UTC(),
	})
}
