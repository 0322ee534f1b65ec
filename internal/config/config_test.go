package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safio/internal/storage"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SAFIO_HTTP_ADDR", "SAFIO_LOG_LEVEL", "SAFIO_STORAGE_DRIVER", "SAFIO_STORAGE_DSN",
		"SAFIO_REDIS_ADDR", "SAFIO_REDIS_PASSWORD", "SAFIO_ADVISOR_MODEL", "API_KEY",
		"GEMINI_API_KEY", "SAFIO_ADVISOR_API_KEY", "SAFIO_KAFKA_BROKERS", "SAFIO_PAYMENT_DELAY",
		"SAFIO_SESSION_TTL", "SAFIO_ADVISOR_TIMEOUT", "SAFIO_HASH_PASSWORDS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9091", cfg.HTTP.Addr)
	assert.Equal(t, storage.DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, 1500*time.Millisecond, cfg.Checkout.PaymentDelay)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 5, cfg.Catalog.LowStockThreshold)
	assert.False(t, cfg.Auth.HashPasswords)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Zero(t, cfg.Advisor.Timeout)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "safio.yaml")
	yml := `
http:
  addr: ":8080"
storage:
  driver: redis
  redis:
    addr: "redis:6379"
    db: 2
checkout:
  payment_delay: 250ms
kafka:
  brokers: ["k1:9092", "k2:9092"]
auth:
  hash_passwords: true
advisor:
  timeout: 3s
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, storage.DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "redis:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, 2, cfg.Storage.Redis.DB)
	assert.Equal(t, storage.DefaultRedisPrefix, cfg.Storage.Redis.Prefix)
	assert.Equal(t, 250*time.Millisecond, cfg.Checkout.PaymentDelay)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Auth.HashPasswords)
	assert.Equal(t, 3*time.Second, cfg.Advisor.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SAFIO_HTTP_ADDR", ":7000")
	t.Setenv("SAFIO_STORAGE_DRIVER", "postgres")
	t.Setenv("SAFIO_STORAGE_DSN", "postgres://u:p@db/safio?sslmode=disable")
	t.Setenv("SAFIO_KAFKA_BROKERS", " a:9092, ,b:9092 ")
	t.Setenv("SAFIO_PAYMENT_DELAY", "2s")
	t.Setenv("SAFIO_HASH_PASSWORDS", "true")
	t.Setenv("API_KEY", "from-api-key")
	t.Setenv("SAFIO_ADVISOR_API_KEY", "from-safio")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.HTTP.Addr)
	assert.Equal(t, storage.DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "postgres://u:p@db/safio?sslmode=disable", cfg.Storage.DSN)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Second, cfg.Checkout.PaymentDelay)
	assert.True(t, cfg.Auth.HashPasswords)
	assert.Equal(t, "from-safio", cfg.Advisor.APIKey)
}

func TestLoad_BadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SAFIO_PAYMENT_DELAY", "soon")
	_, err := Load("")
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("SAFIO_HASH_PASSWORDS", "maybe")
	_, err = Load("")
	assert.Error(t, err)
}
