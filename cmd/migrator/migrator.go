package main

import (
	"flag"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	config "github.com/NordCoder/Upwatch/internal/config/monitor"
	"github.com/NordCoder/Upwatch/internal/obs"
)

// usage: migrator [-config path] [-dir ./migrations] up|down|status
func main() {
	cfgPath := flag.String("config", os.Getenv("MONITOR_CONFIG"), "path to yaml config")
	dir := flag.String("dir", "./migrations", "goose migrations directory")
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "up"
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	l, err := obs.NewLogger(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()
	l = l.With(zap.String("component", "migrator"), zap.String("dir", *dir))

	if err := goose.SetDialect("postgres"); err != nil {
		l.Fatal("set dialect", zap.Error(err))
	}
	db, err := goose.OpenDBWithDriver("pgx", cfg.DB.URL)
	if err != nil {
		l.Fatal("open db", zap.Error(err))
	}
	defer db.Close()

	switch cmd {
	case "up":
		err = goose.Up(db, *dir)
	case "down":
		err = goose.Down(db, *dir)
	case "status":
		err = goose.Status(db, *dir)
	default:
		l.Fatal("unknown command", zap.String("cmd", cmd))
	}
	if err != nil {
		l.Fatal("migrate", zap.String("cmd", cmd), zap.Error(err))
	}
	l.Info("migrations done", zap.String("cmd", cmd))
}
