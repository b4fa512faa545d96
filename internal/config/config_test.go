package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Freeeeeet/pto_bot/internal/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PTO_CONFIG_FILE", "ENV", "LOG_LEVEL", "DB_DSN", "CALENDAR_PROVIDER", "PTO_CAL_ID",
	"PTO_CHANNEL_ID", "PTO_TIMEZONE", "GOOGLE_CREDENTIALS_FILE", "GOOGLE_IMPERSONATE",
	"CALDAV_URL", "CALDAV_USERNAME", "CALDAV_PASSWORD", "SLACK_BOT_TOKEN", "SLACK_APP_TOKEN",
	"TELEGRAM_TOKEN", "VERIFY_CALENDAR_ON_BIND", "CALENDAR_TIMEOUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("PTO_CAL_ID", "team@group.calendar.google.com")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "sqlite://pto.db", cfg.DBDSN)
	assert.Equal(t, calendar.ProviderGoogle, cfg.CalendarProvider)
	assert.Equal(t, "google-creds.json", cfg.GoogleCredentialsFile)
	assert.True(t, cfg.VerifyOnBind)
	assert.Equal(t, 15*time.Second, cfg.CalendarTimeout)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.True(t, cfg.TelegramEnabled())
	assert.False(t, cfg.SlackEnabled())
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PTO_CAL_ID", "team@group")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-1")
	t.Setenv("SLACK_APP_TOKEN", "xapp-1")
	t.Setenv("CALENDAR_PROVIDER", "CalDAV")
	t.Setenv("CALDAV_URL", "https://dav.example.com/")
	t.Setenv("PTO_TIMEZONE", "Europe/Berlin")
	t.Setenv("VERIFY_CALENDAR_ON_BIND", "false")
	t.Setenv("CALENDAR_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, calendar.ProviderCalDAV, cfg.CalendarProvider)
	assert.False(t, cfg.VerifyOnBind)
	assert.Equal(t, 5*time.Second, cfg.CalendarTimeout)
	assert.Equal(t, "Europe/Berlin", cfg.Location().String())
	assert.True(t, cfg.SlackEnabled())
}

func TestLoadFromTOMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "pto.toml")
	content := `
default_calendar_id = "file@group"
default_channel_id = "C123"
telegram_token = "123:abc"
timezone = "America/New_York"
calendar_timeout = "30s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("PTO_CONFIG_FILE", path)
	t.Setenv("PTO_CHANNEL_ID", "C999")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file@group", cfg.DefaultCalendarID)
	assert.Equal(t, "C999", cfg.DefaultChannelID)
	assert.Equal(t, "America/New_York", cfg.TimeZone)
	assert.Equal(t, 30*time.Second, cfg.CalendarTimeout)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaults()
		cfg.DefaultCalendarID = "team@group"
		cfg.TelegramToken = "123:abc"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing calendar", mutate: func(c *Config) { c.DefaultCalendarID = "" }, wantErr: "PTO_CAL_ID"},
		{name: "unknown provider", mutate: func(c *Config) { c.CalendarProvider = "outlook" }, wantErr: "CALENDAR_PROVIDER"},
		{name: "caldav without url", mutate: func(c *Config) { c.CalendarProvider = calendar.ProviderCalDAV }, wantErr: "CALDAV_URL"},
		{name: "bad timezone", mutate: func(c *Config) { c.TimeZone = "Mars/Olympus" }, wantErr: "PTO_TIMEZONE"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "LOG_LEVEL"},
		{name: "no transport", mutate: func(c *Config) { c.TelegramToken = "" }, wantErr: "no chat transport"},
		{name: "half slack", mutate: func(c *Config) {
			c.TelegramToken = ""
			c.SlackBotToken = "xoxb-1"
		}, wantErr: "no chat transport"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRejectsBadBool(t *testing.T) {
	clearEnv(t)
	t.Setenv("PTO_CAL_ID", "team@group")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("VERIFY_CALENDAR_ON_BIND", "maybe")

	_, err := Load()
	assert.ErrorContains(t, err, "VERIFY_CALENDAR_ON_BIND")
}
