package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NordCoder/Upwatch/internal/domain/check"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestTransitionEvents_PublishStatusChanged(t *testing.T) {
	w := &fakeWriter{}
	events := NewTransitionEventsKafka(NewProducerWithWriter(w, "upwatch.status.changed").WithLogger(zap.NewNop()))
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	err := events.PublishStatusChanged(context.Background(), "aaaaaaaaaaaaaaaaaaaa", check.StateUp, check.StateDown, at)
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	assert.Equal(t, "aaaaaaaaaaaaaaaaaaaa", string(w.msgs[0].Key))
	var got StatusChanged
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "aaaaaaaaaaaaaaaaaaaa", got.CheckID)
	assert.Equal(t, check.StateUp, got.Old)
	assert.Equal(t, check.StateDown, got.New)
	assert.True(t, got.At.Equal(at))
}

func TestTransitionEvents_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	events := NewTransitionEventsKafka(NewProducerWithWriter(w, "t").WithLogger(zap.NewNop()))

	err := events.PublishStatusChanged(context.Background(), "id", check.StateDown, check.StateUp, time.Now())
	assert.EqualError(t, err, "broker down")
}
