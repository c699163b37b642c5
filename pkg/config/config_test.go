package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")

	assert.NoError(t, err)
	assert.Equal(t, "academy-analytics", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Mode)
	assert.Equal(t, "info", cfg.App.LogLevel)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)

	assert.Equal(t, "academy:queue", cfg.Queue.KeyPrefix)
	assert.Equal(t, 3, cfg.Queue.Attempts)
	assert.Equal(t, 2*time.Second, cfg.Queue.Backoff)
	assert.Equal(t, 30*time.Second, cfg.Queue.StallTimeout)

	assert.Equal(t, 4, cfg.Analytics.DefaultWindowWeeks)
	assert.InDelta(t, 60.0, cfg.Analytics.LowAttendancePct, 1e-9)

	assert.Equal(t, "Europe/Budapest", cfg.Scheduler.Timezone)
	assert.Equal(t, "0 8 * * *", cfg.Scheduler.ReminderCron)
	assert.Equal(t, "0 18 * * 0", cfg.Scheduler.ReportCron)
	assert.Equal(t, "0 9 * * 1", cfg.Scheduler.AlertCron)
	assert.Equal(t, 24*time.Hour, cfg.Scheduler.ReminderWindow)

	assert.Equal(t, "console", cfg.Notifier.Driver)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, 52, cfg.API.MaxWeeks)

	assert.Equal(t, 30*time.Second, cfg.WebSocket.StatsInterval)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ACADEMY_APP_MODE", "production")
	t.Setenv("ACADEMY_ANALYTICS_LOW_ATTENDANCE_PCT", "70")

	cfg, err := Load("")

	assert.NoError(t, err)
	assert.Equal(t, "production", cfg.App.Mode)
	assert.InDelta(t, 70.0, cfg.Analytics.LowAttendancePct, 1e-9)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		assert.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "bad app mode",
			mutate:  func(c *Config) { c.App.Mode = "staging" },
			wantErr: "app.mode",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.App.LogLevel = "trace" },
			wantErr: "app.log_level",
		},
		{
			name:    "bad database port",
			mutate:  func(c *Config) { c.Database.Port = 0 },
			wantErr: "database.port",
		},
		{
			name:    "zero retry budget",
			mutate:  func(c *Config) { c.Queue.Attempts = 0 },
			wantErr: "queue.attempts",
		},
		{
			name:    "threshold out of range",
			mutate:  func(c *Config) { c.Analytics.LowAttendancePct = 150 },
			wantErr: "analytics.low_attendance_pct",
		},
		{
			name:    "unknown timezone",
			mutate:  func(c *Config) { c.Scheduler.Timezone = "Mars/Olympus" },
			wantErr: "scheduler.timezone",
		},
		{
			name:    "missing cron expression",
			mutate:  func(c *Config) { c.Scheduler.AlertCron = "" },
			wantErr: "cron expressions",
		},
		{
			name:    "sendgrid without key",
			mutate:  func(c *Config) { c.Notifier.Driver = "sendgrid" },
			wantErr: "notifier.sendgrid_key",
		},
		{
			name:    "unknown notifier driver",
			mutate:  func(c *Config) { c.Notifier.Driver = "pigeon" },
			wantErr: "notifier.driver",
		},
		{
			name: "default weeks above max",
			mutate: func(c *Config) {
				c.API.DefaultWeeks = 60
				c.API.MaxWeeks = 52
			},
			wantErr: "api.default_weeks",
		},
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
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
