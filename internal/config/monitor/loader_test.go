package monitor_config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 60*time.Second, cfg.Monitor.ProbeInterval)
	assert.Equal(t, 24*time.Hour, cfg.Monitor.RotationInterval)
	assert.Equal(t, StoreFile, cfg.Store.Driver)
	assert.Equal(t, "checks", cfg.Store.Collection)
	assert.Equal(t, ".logs", cfg.Audit.Dir)
	assert.Equal(t, "+57", cfg.SMS.CountryPrefix)
	assert.Equal(t, 10*time.Second, cfg.SMS.Timeout)
	assert.Equal(t, 2*time.Second, cfg.DB.QueryTimeout)
	assert.True(t, cfg.Monitor.HTTP.VerifyTLS)
	assert.False(t, cfg.Monitor.HTTP.FollowRedirects)
	assert.False(t, cfg.Kafka.Enable)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []string{"stderr"}, cfg.Log.Outputs)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
monitor:
  probe_interval: 5s
  rotation_interval: 1h
store:
  driver: postgres
sms:
  account_sid: AC42
kafka:
  enable: true
  brokers: ["k1:9092", "k2:9092"]
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Monitor.ProbeInterval)
	assert.Equal(t, time.Hour, cfg.Monitor.RotationInterval)
	assert.Equal(t, StorePostgres, cfg.Store.Driver)
	assert.Equal(t, "AC42", cfg.SMS.AccountSID)
	assert.True(t, cfg.Kafka.Enable)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MONITOR_PROBE_INTERVAL", "15s")
	t.Setenv("AUDIT_DIR", "/var/log/upwatch")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cfg.Monitor.ProbeInterval)
	assert.Equal(t, "/var/log/upwatch", cfg.Audit.Dir)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "redis")

	_, err := Load("")
	assert.Error(t, err)
}
