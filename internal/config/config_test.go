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

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
host = "localhost"
port = 5432
user = "appointments"
password = "secret"
dbname = "appointments"

[logs]
file = "logs/app.log"
level = "debug"

[metrics]
enabled = true

[booking]
token_ttl_days = 14

[events]
buffer_size = 512

[giftcard_service]
url = "http://giftcards:8081"
timeout = 3

[notification_service]
url = "http://notifications:8082"

[reminder_service]
url = "http://reminders:8083"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "debug", cfg.Logs.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 14, cfg.Booking.TokenTTLDays)
	assert.Equal(t, 512, cfg.Events.BufferSize)
	assert.Equal(t, "http://giftcards:8081", cfg.GiftCardService.URL)
	assert.Equal(t, 3, cfg.GiftCardService.Timeout)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"
user = "appointments"
dbname = "appointments"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "appointment-service", cfg.Metrics.ServiceName)
	assert.Equal(t, 30, cfg.Booking.TokenTTLDays)
	assert.Equal(t, 256, cfg.Events.BufferSize)
	assert.Equal(t, 5, cfg.ReminderService.Timeout)
}

func TestLoad_RequiresDatabaseSettings(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing host",
			content: `
[database]
user = "appointments"
dbname = "appointments"
`,
		},
		{
			name: "missing user",
			content: `
[database]
host = "localhost"
dbname = "appointments"
`,
		},
		{
			name: "missing dbname",
			content: `
[database]
host = "localhost"
user = "appointments"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "no-such-config.toml"))
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	db := Database{
		Host:     "localhost",
		Port:     5432,
		User:     "appointments",
		Password: "secret",
		DBName:   "appointments",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=appointments password=secret dbname=appointments sslmode=disable",
		db.DSN(),
	)
}
