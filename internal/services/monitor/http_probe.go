package monitor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/NordCoder/Upwatch/internal/domain/check"
	"github.com/NordCoder/Upwatch/internal/domain/run"
)

// completion lets exactly one terminal event of a probe through.
type completion struct {
	fired atomic.Bool
	ch    chan run.Outcome
}

func newCompletion() *completion {
	return &completion{ch: make(chan run.Outcome, 1)}
}

// fire reports whether o was the first event; later events are dropped.
func (c *completion) fire(o run.Outcome) bool {
	if !c.fired.CompareAndSwap(false, true) {
		mLateEvents.Inc()
		return false
	}
	c.ch <- o
	return true
}

func (c *completion) wait() run.Outcome {
	return <-c.ch
}

type Prober interface {
	Probe(ctx context.Context, c *check.Check) run.Outcome
}

type HTTPProbe struct {
	Client    *http.Client
	UserAgent string
	log       *zap.Logger
}

func NewHTTPProbe(client *http.Client, userAgent string) *HTTPProbe {
	return &HTTPProbe{
		Client:    client,
		UserAgent: userAgent,
		log:       zap.L().With(zap.String("component", "monitor.probe")),
	}
}

func (p *HTTPProbe) WithLogger(l *zap.Logger) *HTTPProbe {
	if l == nil {
		return p
	}
	cp := *p
	cp.log = l.With(zap.String("component", "monitor.probe"))
	return &cp
}

// Probe issues one request for c and blocks until the response, a transport
// error or the check's timeout, whichever comes first. Cancelling ctx does not
// stop a probe that has started.
func (p *HTTPProbe) Probe(ctx context.Context, c *check.Check) run.Outcome {
	reqCtx, abort := context.WithCancel(context.WithoutCancel(ctx))
	defer abort()

	req, err := newProbeRequest(reqCtx, c)
	if err != nil {
		return run.Failure(run.ErrorKindNetwork, err.Error())
	}
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}

	done := newCompletion()
	timer := time.AfterFunc(c.Timeout(), func() {
		if done.fire(run.Failure(run.ErrorKindTimeout, fmt.Sprintf("no response within %s", c.Timeout()))) {
			abort()
		}
	})
	defer timer.Stop()

	start := time.Now()
	go func() {
		resp, err := p.Client.Do(req)
		if err != nil {
			if done.fire(failureFrom(err)) {
				p.log.Debug("probe failed", zap.String("check_id", c.ID), zap.Error(err))
			}
			return
		}
		_ = resp.Body.Close()
		done.fire(run.Response(resp.StatusCode))
	}()

	out := done.wait()
	mProbeDur.Observe(time.Since(start).Seconds())
	return out
}

func newProbeRequest(ctx context.Context, c *check.Check) (*http.Request, error) {
	u, err := url.Parse(c.Target())
	if err != nil {
		return nil, fmt.Errorf("parse target: %w", err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("parse target: no host in %q", c.Target())
	}
	return http.NewRequestWithContext(ctx, strings.ToUpper(c.Method), u.String(), nil)
}

func failureFrom(err error) run.Outcome {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return run.Failure(run.ErrorKindTimeout, err.Error())
	}
	return run.Failure(run.ErrorKindNetwork, err.Error())
}
