package monitor_config

import (
	"time"

	"github.com/NordCoder/Upwatch/internal/obs"
	pginfra "github.com/NordCoder/Upwatch/internal/repository/postgres"
	"github.com/NordCoder/Upwatch/internal/repository/twilio"
)

const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

type HTTPProbe struct {
	UserAgent       string `mapstructure:"user_agent"`
	FollowRedirects bool   `mapstructure:"follow_redirects"`
	VerifyTLS       bool   `mapstructure:"verify_tls"`
}

type MonitorCfg struct {
	ProbeInterval    time.Duration `mapstructure:"probe_interval"`
	RotationInterval time.Duration `mapstructure:"rotation_interval"`
	ShutdownGrace    time.Duration `mapstructure:"shutdown_grace"`
	HTTP             HTTPProbe     `mapstructure:"http"`
}

type StoreCfg struct {
	Driver     string `mapstructure:"driver"`
	DataDir    string `mapstructure:"data_dir"`
	Collection string `mapstructure:"collection"`
}

type AuditCfg struct {
	Dir string `mapstructure:"dir"`
}

type KafkaCfg struct {
	Enable  bool     `mapstructure:"enable"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type Server struct {
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type Config struct {
	Log     obs.LogConfig  `mapstructure:"log"`
	OTEL    obs.OTELConfig `mapstructure:"otel"`
	Server  Server         `mapstructure:"server"`
	Monitor MonitorCfg     `mapstructure:"monitor"`
	Store   StoreCfg       `mapstructure:"store"`
	DB      pginfra.Config `mapstructure:"db"`
	Audit   AuditCfg       `mapstructure:"audit"`
	SMS     twilio.Config  `mapstructure:"sms"`
	Kafka   KafkaCfg       `mapstructure:"kafka"`
}
