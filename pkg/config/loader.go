package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/academy")
	}

	// Environment variable settings
	v.SetEnvPrefix("ACADEMY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "academy-analytics")
	v.SetDefault("app.mode", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.shutdown_timeout", "30s")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "academy")
	v.SetDefault("database.user", "academy")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.ping_timeout", "10s")

	// Redis defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
	v.SetDefault("redis.pool_size", 10)

	// Queue defaults
	v.SetDefault("queue.key_prefix", "academy:queue")
	v.SetDefault("queue.attempts", 3)
	v.SetDefault("queue.backoff", "2s")
	v.SetDefault("queue.stall_timeout", "30s")
	v.SetDefault("queue.sweep_interval", "10s")
	v.SetDefault("queue.handler_timeout", "30s")
	v.SetDefault("queue.probe_timeout", "3s")
	v.SetDefault("queue.circuit_breaker.max_failures", 5)
	v.SetDefault("queue.circuit_breaker.timeout", "30s")

	// Analytics defaults
	v.SetDefault("analytics.default_window_weeks", 4)
	v.SetDefault("analytics.low_attendance_pct", 60.0)

	// Scheduler defaults, anchored to the academy's local timezone
	v.SetDefault("scheduler.timezone", "Europe/Budapest")
	v.SetDefault("scheduler.reminder_cron", "0 8 * * *")
	v.SetDefault("scheduler.report_cron", "0 18 * * 0")
	v.SetDefault("scheduler.alert_cron", "0 9 * * 1")
	v.SetDefault("scheduler.reminder_window", "24h")
	v.SetDefault("scheduler.report_weeks", 1)
	v.SetDefault("scheduler.pass_timeout", "2m")

	// Notifier defaults
	v.SetDefault("notifier.driver", "console")
	v.SetDefault("notifier.from_name", "Lion Football Academy")
	v.SetDefault("notifier.from_email", "noreply@lionfootballacademy.com")

	// API defaults
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "15s")
	v.SetDefault("api.idle_timeout", "60s")
	v.SetDefault("api.rate_limit", 100)
	v.SetDefault("api.default_weeks", 4)
	v.SetDefault("api.max_weeks", 52)

	// WebSocket defaults
	v.SetDefault("websocket.max_connections", 100)
	v.SetDefault("websocket.ping_interval", "54s")
	v.SetDefault("websocket.write_timeout", "10s")
	v.SetDefault("websocket.pong_timeout", "60s")
	v.SetDefault("websocket.max_message_size", 512)
	v.SetDefault("websocket.read_buffer_size", 1024)
	v.SetDefault("websocket.write_buffer_size", 1024)
	v.SetDefault("websocket.broadcast_buffer", 256)
	v.SetDefault("websocket.client_buffer", 64)
	v.SetDefault("websocket.stats_interval", "30s")

	// Events defaults
	v.SetDefault("events.buffer_size", 100)
}
