// Package config loads the server settings from a YAML file with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"safio/internal/storage"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Storage  storage.Config `yaml:"storage"`
	Session  SessionConfig  `yaml:"session"`
	Checkout CheckoutConfig `yaml:"checkout"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Auth     AuthConfig     `yaml:"auth"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Advisor  AdvisorConfig  `yaml:"advisor"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// SecureCookies marks the session cookie Secure.
	SecureCookies bool `yaml:"secure_cookies"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type SessionConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type CheckoutConfig struct {
	PaymentDelay time.Duration `yaml:"payment_delay"`
	// OrderTimeout bounds recording an order after payment.
	OrderTimeout time.Duration `yaml:"order_timeout"`
}

type CatalogConfig struct {
	LowStockThreshold int `yaml:"low_stock_threshold"`
}

type AuthConfig struct {
	HashPasswords bool `yaml:"hash_passwords"`
}

// KafkaConfig enables the Kafka publisher when Brokers is not empty.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
}

type AdvisorConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":9091",
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{Level: "info"},
		Storage: storage.Config{
			Driver: storage.DriverSQLite,
			DSN:    "safio.db",
			Redis:  storage.RedisConfig{Addr: "localhost:6379", Prefix: storage.DefaultRedisPrefix},
		},
		Session: SessionConfig{
			TTL:           24 * time.Hour,
			SweepInterval: 10 * time.Minute,
		},
		Checkout: CheckoutConfig{
			PaymentDelay: 1500 * time.Millisecond,
			OrderTimeout: 5 * time.Second,
		},
		Catalog: CatalogConfig{LowStockThreshold: 5},
		Advisor: AdvisorConfig{Model: "gemini-2.5-flash"},
	}
}

// Load reads path over the defaults, then applies SAFIO_* variables.
// An empty path or a missing file leaves the defaults in place.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	c.HTTP.Addr = getEnv("SAFIO_HTTP_ADDR", c.HTTP.Addr)
	c.Log.Level = getEnv("SAFIO_LOG_LEVEL", c.Log.Level)
	c.Storage.Driver = getEnv("SAFIO_STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.DSN = getEnv("SAFIO_STORAGE_DSN", c.Storage.DSN)
	c.Storage.Redis.Addr = getEnv("SAFIO_REDIS_ADDR", c.Storage.Redis.Addr)
	c.Storage.Redis.Password = getEnv("SAFIO_REDIS_PASSWORD", c.Storage.Redis.Password)
	c.Advisor.Model = getEnv("SAFIO_ADVISOR_MODEL", c.Advisor.Model)

	// API_KEY is what the storefront build used.
	for _, k := range []string{"API_KEY", "GEMINI_API_KEY", "SAFIO_ADVISOR_API_KEY"} {
		c.Advisor.APIKey = getEnv(k, c.Advisor.APIKey)
	}

	if v := os.Getenv("SAFIO_KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}

	var err error
	if c.Checkout.PaymentDelay, err = getEnvDuration("SAFIO_PAYMENT_DELAY", c.Checkout.PaymentDelay); err != nil {
		return err
	}
	if c.Session.TTL, err = getEnvDuration("SAFIO_SESSION_TTL", c.Session.TTL); err != nil {
		return err
	}
	if c.Advisor.Timeout, err = getEnvDuration("SAFIO_ADVISOR_TIMEOUT", c.Advisor.Timeout); err != nil {
		return err
	}
	if v := os.Getenv("SAFIO_HASH_PASSWORDS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SAFIO_HASH_PASSWORDS: %w", err)
		}
		c.Auth.HashPasswords = b
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
