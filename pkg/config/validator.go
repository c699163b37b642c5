package config

import (
	"errors"
	"fmt"
	"time"
)

func (c *Config) Validate() error {
	var errs []error

	// App validation
	if c.App.Name == "" {
		errs = append(errs, errors.New("app.name is required"))
	}

	validModes := map[string]bool{"development": true, "production": true, "test": true}
	if !validModes[c.App.Mode] {
		errs = append(errs, fmt.Errorf("app.mode must be one of: development, production, test"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.App.LogLevel] {
		errs = append(errs, fmt.Errorf("app.log_level must be one of: debug, info, warn, error"))
	}

	// Database validation
	if c.Database.Host == "" {
		errs = append(errs, errors.New("database.host is required"))
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, errors.New("database.port must be between 1 and 65535"))
	}
	if c.Database.Name == "" {
		errs = append(errs, errors.New("database.name is required"))
	}
	if c.Database.MaxConnections <= 0 {
		errs = append(errs, errors.New("database.max_connections must be positive"))
	}

	// Queue validation
	if c.Queue.Attempts <= 0 {
		errs = append(errs, errors.New("queue.attempts must be positive"))
	}
	if c.Queue.Backoff <= 0 {
		errs = append(errs, errors.New("queue.backoff must be positive"))
	}
	if c.Queue.StallTimeout <= 0 {
		errs = append(errs, errors.New("queue.stall_timeout must be positive"))
	}

	// Analytics validation
	if c.Analytics.DefaultWindowWeeks <= 0 {
		errs = append(errs, errors.New("analytics.default_window_weeks must be positive"))
	}
	if c.Analytics.LowAttendancePct <= 0 || c.Analytics.LowAttendancePct > 100 {
		errs = append(errs, errors.New("analytics.low_attendance_pct must be between 1 and 100"))
	}

	// Scheduler validation
	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("scheduler.timezone is invalid: %w", err))
	}
	if c.Scheduler.ReminderCron == "" || c.Scheduler.ReportCron == "" || c.Scheduler.AlertCron == "" {
		errs = append(errs, errors.New("scheduler cron expressions are required"))
	}

	// Notifier validation
	if c.Notifier.Driver != "sendgrid" && c.Notifier.Driver != "console" {
		errs = append(errs, errors.New("notifier.driver must be one of: sendgrid, console"))
	}
	if c.Notifier.Driver == "sendgrid" && c.Notifier.SendgridKey == "" {
		errs = append(errs, errors.New("notifier.sendgrid_key is required for the sendgrid driver"))
	}

	// API validation
	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, errors.New("api.port must be between 1 and 65535"))
	}
	if c.API.MaxWeeks > 0 && c.API.DefaultWeeks > c.API.MaxWeeks {
		errs = append(errs, errors.New("api.default_weeks must not exceed api.max_weeks"))
	}

	return errors.Join(errs...)
}
