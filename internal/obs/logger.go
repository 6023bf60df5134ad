package obs

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogConfig struct {
	Level   string   `mapstructure:"level"`
	Pretty  bool     `mapstructure:"pretty"`
	App     string   `mapstructure:"app"`
	Env     string   `mapstructure:"env"`
	Ver     string   `mapstructure:"version"`
	Outputs []string `mapstructure:"outputs"`
}

// NewLogger builds the process logger. An unknown level falls back to info and
// is reported once through the new logger.
func NewLogger(c LogConfig) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if c.Pretty {
		cfg = zap.NewDevelopmentConfig()
	}

	level, levelErr := zapcore.ParseLevel(c.Level)
	if levelErr != nil {
		level = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if len(c.Outputs) > 0 {
		cfg.OutputPaths = c.Outputs
	}

	l, err := cfg.Build(zap.Fields(
		zap.String("service", c.App),
		zap.String("env", c.Env),
		zap.String("version", c.Ver),
	))
	if err != nil {
		return nil, err
	}
	if levelErr != nil && c.Level != "" {
		l.Warn("unknown log level, using info", zap.String("level", c.Level))
	}
	return l, nil
}
