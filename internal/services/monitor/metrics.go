package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monitor_checks_dispatched_total", Help: "Check pipelines started by the probe cycle",
	})
	mSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monitor_checks_skipped_total", Help: "Checks skipped before probing",
	}, []string{"reason"})
	mProbes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monitor_probes_total", Help: "Probes by resulting state",
	}, []string{"state"})
	mProbeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monitor_probe_errors_total", Help: "Probes that ended with an error",
	}, []string{"kind"})
	mProbeDur = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "monitor_probe_duration_seconds",
		Help:    "Time until the first terminal probe event",
		Buckets: prometheus.DefBuckets,
	})
	mLateEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monitor_probe_late_events_total", Help: "Probe events dropped after completion",
	})
	mTransitions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monitor_transitions_total", Help: "State changes of previously probed checks",
	})
	mAlerts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monitor_alerts_total", Help: "SMS alerts by result",
	}, []string{"result"})
	mFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monitor_failures_total", Help: "Collaborator failures inside check pipelines",
	}, []string{"stage"})
)
