package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
[database]
driver = "memory"
seed_demo = true

[scheduling]
timezone = "UTC"
slot_granularity_minutes = 30

[outbox]
enabled = true
brokers = ["kafka:9092"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.True(t, cfg.Database.SeedDemo)
	assert.Equal(t, 30, cfg.Scheduling.SlotGranularityMinutes)
	assert.Equal(t, []string{"kafka:9092"}, cfg.Outbox.Brokers)
	assert.Equal(t, 8080, cfg.Server.HTTPPort, "default kept when key is absent")
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "db"
dbname = "barber"
`)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("USER_SERVICE_URL", "http://users:8080")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Outbox.Brokers)
	assert.Equal(t, "http://users:8080", cfg.UserService.URL)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")
	assert.Contains(t, cfg.Database.DSN(), "dbname=barber")
}

func TestLoad_InvalidPort(t *testing.T) {
	path := writeConfig(t, `[database]
driver = "memory"`)
	t.Setenv("HTTP_PORT", "http")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults with dbname", func(c *Config) { c.Database.DBName = "barber" }, false},
		{"postgres without dbname", func(c *Config) {}, true},
		{"memory driver", func(c *Config) { c.Database.Driver = DriverMemory }, false},
		{"unknown driver", func(c *Config) { c.Database.Driver = "sqlite" }, true},
		{"granularity too small", func(c *Config) {
			c.Database.Driver = DriverMemory
			c.Scheduling.SlotGranularityMinutes = 1
		}, true},
		{"unknown timezone", func(c *Config) {
			c.Database.Driver = DriverMemory
			c.Scheduling.Timezone = "Mars/Olympus_Mons"
		}, true},
		{"rate limit without window", func(c *Config) {
			c.Database.Driver = DriverMemory
			c.RateLimit.Enabled = true
			c.RateLimit.WindowSeconds = 0
		}, true},
		{"trusted proxies", func(c *Config) {
			c.Database.Driver = DriverMemory
			c.RateLimit.TrustedProxies = []string{"10.0.0.0/8", "192.168.1.1"}
		}, false},
		{"malformed trusted proxy", func(c *Config) {
			c.Database.Driver = DriverMemory
			c.RateLimit.TrustedProxies = []string{"10.0.0.0/33"}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
