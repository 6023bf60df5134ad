package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunner_FiresImmediately(t *testing.T) {
	var calls atomic.Int32
	fired := make(chan struct{}, 1)
	r := New(zap.NewNop(), "probe", time.Hour, func(context.Context) error {
		calls.Add(1)
		fired <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- r.Run(ctx) }()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	cancel()

	assert.ErrorIs(t, <-errc, context.Canceled)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRunner_KeepsTickingAfterErrors(t *testing.T) {
	var calls atomic.Int32
	r := New(zap.NewNop(), "rotation", 10*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return errors.New("boom")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := r.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestRunner_IndependentLoops(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	slow := New(zap.NewNop(), "slow", 5*time.Millisecond, func(context.Context) error {
		<-block
		return nil
	})
	var fast atomic.Int32
	quick := New(zap.NewNop(), "quick", 5*time.Millisecond, func(context.Context) error {
		fast.Add(1)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	go func() { _ = slow.Run(ctx) }()
	_ = quick.Run(ctx)

	assert.Greater(t, fast.Load(), int32(3))
}
