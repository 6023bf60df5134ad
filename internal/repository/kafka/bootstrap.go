package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type ProducerConfig struct {
	Brokers []string
	Topic   string
}

// BootstrapProducer makes a best effort to create the topic, then returns a
// producer regardless; writes fail later if the topic never shows up.
func BootstrapProducer(ctx context.Context, cfg ProducerConfig, logger *zap.Logger) *Producer {
	if err := EnsureTopic(ctx, cfg.Brokers, TopicSpec{
		Name:              cfg.Topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
		MaxWait:           5 * time.Second,
	}, logger); err != nil {
		logger.Warn("kafka topic bootstrap", zap.Error(err))
	}

	return NewProducer(cfg.Brokers, cfg.Topic).WithLogger(logger)
}
