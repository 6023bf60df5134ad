package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/NordCoder/Upwatch/internal/domain/check"
	"github.com/NordCoder/Upwatch/internal/domain/document"
	"github.com/NordCoder/Upwatch/internal/domain/run"
)

const testID = "abcdefghij0123456789"

func validRaw() check.Raw {
	return check.Raw{
		"id":              testID,
		"user_phone":      "3001234567",
		"protocol":        "https",
		"url":             "example.com/health?deep=1",
		"method":          "get",
		"success_codes":   []any{float64(200), float64(201)},
		"timeout_seconds": float64(3),
	}
}

type fakeRepo struct {
	mu        sync.Mutex
	docs      map[string]check.Raw
	updated   []check.Check
	readErr   error
	updateErr error
}

func newFakeRepo(docs ...check.Raw) *fakeRepo {
	r := &fakeRepo{docs: map[string]check.Raw{}}
	for _, d := range docs {
		r.docs[d["id"].(string)] = d
	}
	return r
}

func (r *fakeRepo) Read(_ context.Context, id string) (check.Raw, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.readErr != nil {
		return nil, r.readErr
	}
	d, ok := r.docs[id]
	if !ok {
		return nil, document.ErrNotFound
	}
	return d, nil
}

func (r *fakeRepo) Update(_ context.Context, c *check.Check) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updated = append(r.updated, *c)
	return nil
}

func (r *fakeRepo) List(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.docs))
	for id := range r.docs {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *fakeRepo) updates() []check.Check {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]check.Check(nil), r.updated...)
}

type fakeLog struct {
	mu      sync.Mutex
	entries []run.Run
	err     error
}

func (l *fakeLog) Append(_ context.Context, r *run.Run) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.entries = append(l.entries, *r)
	return nil
}

type sms struct {
	phone   string
	message string
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []sms
	err  error
}

func (f *fakeSMS) Send(_ context.Context, phone, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sms{phone: phone, message: message})
	return nil
}

type transition struct {
	id       string
	old, new check.State
	at       time.Time
}

type fakeEvents struct {
	mu   sync.Mutex
	sent []transition
}

func (f *fakeEvents) PublishStatusChanged(_ context.Context, id string, old, new check.State, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, transition{id: id, old: old, new: new, at: at})
	return nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeProber struct {
	mu      sync.Mutex
	outcome run.Outcome
	calls   int
}

func (p *fakeProber) Probe(context.Context, *check.Check) run.Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.outcome
}

func (p *fakeProber) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
