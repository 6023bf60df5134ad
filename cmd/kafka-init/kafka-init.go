package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	config "github.com/NordCoder/Upwatch/internal/config/monitor"
	"github.com/NordCoder/Upwatch/internal/obs"
	"github.com/NordCoder/Upwatch/internal/repository/kafka"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("MONITOR_CONFIG"), "path to yaml config")
	partitions := flag.Int("partitions", 1, "partitions for the transition topic")
	rf := flag.Int("rf", 1, "replication factor for the transition topic")
	wait := flag.Duration("wait", 30*time.Second, "how long to wait for partition leaders")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	l, err := obs.NewLogger(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *wait+10*time.Second)
	defer cancel()

	if err := kafka.EnsureTopic(ctx, cfg.Kafka.Brokers, kafka.TopicSpec{
		Name:              cfg.Kafka.Topic,
		NumPartitions:     *partitions,
		ReplicationFactor: *rf,
		MaxWait:           *wait,
	}, l); err != nil {
		l.Fatal("ensure topic", zap.Strings("brokers", cfg.Kafka.Brokers), zap.Error(err))
	}
	l.Info("kafka-init ok")
}
