package monitor_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NordCoder/Upwatch/internal/auditlog"
	config "github.com/NordCoder/Upwatch/internal/config/monitor"
	"github.com/NordCoder/Upwatch/internal/domain/check"
	"github.com/NordCoder/Upwatch/internal/repository/filestore"
	"github.com/NordCoder/Upwatch/internal/repository/twilio"
	"github.com/NordCoder/Upwatch/internal/services/monitor"
	"github.com/NordCoder/Upwatch/internal/services/monitor/repo"
)

type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Minute)
	return c.t
}

func TestPipeline_TransitionAlertsOnce(t *testing.T) {
	ctx := context.Background()

	var status atomic.Int32
	status.Store(http.StatusOK)
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(int(status.Load()))
	}))
	defer target.Close()

	var smsMu sync.Mutex
	var bodies []string
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		smsMu.Lock()
		bodies = append(bodies, r.PostForm.Get("To")+"|"+r.PostForm.Get("Body"))
		smsMu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	defer gateway.Close()

	fs := afero.NewMemMapFs()
	docs := filestore.New(fs, "/data")
	id := "k3j2h4g5f6d7s8a9q0w1"
	host := strings.TrimPrefix(target.URL, "http://")
	require.NoError(t, docs.Create(ctx, check.Collection, id, []byte(`{
		"id": "`+id+`",
		"user_phone": "3001234567",
		"protocol": "http",
		"url": "`+host+`/status",
		"method": "get",
		"success_codes": [200],
		"timeout_seconds": 2
	}`)))

	audit := auditlog.New(fs, "/logs")
	require.NoError(t, audit.Init())
	checks := repo.CheckStore{S: docs}

	sender := twilio.New(twilio.Config{BaseURL: gateway.URL, AccountSID: "AC1", FromPhone: "+15550001", CountryPrefix: "+57"}).
		WithLogger(zap.NewNop())
	h := (&monitor.Handler{
		Checks: checks,
		Runs:   audit,
		Alerts: monitor.NewDispatcher(sender).WithLogger(zap.NewNop()),
		Clock:  &stepClock{t: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		Probe:  monitor.NewHTTPProbe(monitor.NewHTTPClient(config.HTTPProbe{VerifyTLS: true}), "upwatch-e2e").WithLogger(zap.NewNop()),
	}).WithLogger(zap.NewNop())
	cycle := monitor.NewCycle(checks, h)

	runCycle := func() {
		_, err := cycle.Tick(ctx)
		require.NoError(t, err)
		wctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		require.NoError(t, cycle.Wait(wctx))
	}

	runCycle()
	status.Store(http.StatusServiceUnavailable)
	runCycle()
	runCycle()

	raw, err := checks.Read(ctx, id)
	require.NoError(t, err)
	stored, err := monitor.Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, check.StateDown, stored.State)
	require.NotNil(t, stored.LastChecked)

	smsMu.Lock()
	defer smsMu.Unlock()
	require.Len(t, bodies, 1)
	assert.Equal(t, "+573001234567|Alert: Your check for GET http://"+host+"/status is currently down", bodies[0])

	entries, err := audit.History(ctx, id)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []check.State{check.StateUp, check.StateDown, check.StateDown},
		[]check.State{entries[0].State, entries[1].State, entries[2].State})
	assert.Equal(t, []bool{false, true, false}, []bool{entries[0].Alert, entries[1].Alert, entries[2].Alert})

	_, err = audit.Rotate(id, time.UnixMilli(1))
	require.NoError(t, err)
	rotated, err := audit.History(ctx, id)
	require.NoError(t, err)
	assert.Len(t, rotated, 3)

	rec := httptest.NewRecorder()
	monitor.HistoryHandler(audit, zap.NewNop()).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/history?check="+url.QueryEscape(id), nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"alert":true`)
}
