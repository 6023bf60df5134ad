package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/NordCoder/Upwatch/internal/auditlog"
	config "github.com/NordCoder/Upwatch/internal/config/monitor"
	"github.com/NordCoder/Upwatch/internal/domain/document"
	"github.com/NordCoder/Upwatch/internal/obs"
	"github.com/NordCoder/Upwatch/internal/repository/filestore"
	"github.com/NordCoder/Upwatch/internal/repository/kafka"
	pg "github.com/NordCoder/Upwatch/internal/repository/postgres"
	"github.com/NordCoder/Upwatch/internal/repository/twilio"
	"github.com/NordCoder/Upwatch/internal/services/monitor"
	monitorrepo "github.com/NordCoder/Upwatch/internal/services/monitor/repo"
	"github.com/NordCoder/Upwatch/internal/services/rotator"
	"github.com/NordCoder/Upwatch/internal/services/scheduler"
)

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

type pinger interface {
	Ping(ctx context.Context) error
}

func openStore(ctx context.Context, cfg *config.Config) (document.Store, pinger, func(), error) {
	if cfg.Store.Driver == config.StorePostgres {
		db, err := pg.New(ctx, cfg.DB)
		if err != nil {
			return nil, nil, nil, err
		}
		return pg.NewDocumentStore(db), db, db.Close, nil
	}
	fs := afero.NewOsFs()
	if err := fs.MkdirAll(cfg.Store.DataDir, 0o755); err != nil {
		return nil, nil, nil, err
	}
	st := filestore.New(fs, cfg.Store.DataDir)
	return st, st, func() {}, nil
}

func main() {
	cfgPath := flag.String("config", os.Getenv("MONITOR_CONFIG"), "path to yaml config")
	flag.Parse()

	// init
	root, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	// logger
	l, err := obs.NewLogger(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()
	zap.ReplaceGlobals(l)

	// otel
	otelCloser, err := obs.SetupOTel(root, &cfg.OTEL)
	if err != nil {
		l.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	// storage
	store, health, closeStore, err := openStore(root, cfg)
	if err != nil {
		l.Fatal("store open", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer closeStore()
	checks := monitorrepo.CheckStore{S: store, Collection: cfg.Store.Collection}

	audit := auditlog.New(afero.NewOsFs(), cfg.Audit.Dir)
	if err := audit.Init(); err != nil {
		l.Fatal("audit log dir", zap.Error(err))
	}

	// wiring
	h := &monitor.Handler{
		Checks: checks,
		Runs:   audit,
		Alerts: monitor.NewDispatcher(twilio.New(cfg.SMS).WithLogger(l)).WithLogger(l),
		Clock:  systemClock{},
		Probe: monitor.NewHTTPProbe(
			monitor.NewHTTPClient(cfg.Monitor.HTTP),
			cfg.Monitor.HTTP.UserAgent,
		).WithLogger(l),
	}
	if cfg.Kafka.Enable {
		prod := kafka.BootstrapProducer(root, kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic}, l)
		defer func() { _ = prod.Close() }()
		h.Events = kafka.NewTransitionEventsKafka(prod)
	}
	h = h.WithLogger(l)

	cycle := monitor.NewCycle(checks, h)
	rot := rotator.New(audit, systemClock{}).WithLogger(l)

	// metrics
	ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, health.Ping, l,
		obs.Route{Pattern: "/history", Handler: monitor.HistoryHandler(audit, l)},
	)

	// start
	g, gctx := errgroup.WithContext(root)
	g.Go(func() error {
		return scheduler.New(l, "probe", cfg.Monitor.ProbeInterval, func(ctx context.Context) error {
			_, err := cycle.Tick(ctx)
			return err
		}).Run(gctx)
	})
	g.Go(func() error {
		return scheduler.New(l, "rotation", cfg.Monitor.RotationInterval, rot.RotateAll).Run(gctx)
	})
	l.Info("monitor started",
		zap.Duration("probe_interval", cfg.Monitor.ProbeInterval),
		zap.Duration("rotation_interval", cfg.Monitor.RotationInterval),
		zap.String("store", cfg.Store.Driver),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		l.Error("runner error", zap.Error(err))
	}

	// drain in-flight pipelines
	waitCtx, cancelWait := context.WithTimeout(context.Background(), cfg.Monitor.ShutdownGrace)
	defer cancelWait()
	if err := cycle.Wait(waitCtx); err != nil {
		l.Warn("pipelines still running at shutdown", zap.Error(err))
	}

	// graceful metrics server shutdown
	shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = ms.Shutdown(shCtx)
	l.Info("bye")
}
