package main

import "time"

// serviceName identifies this process in telemetry backends.
const serviceName = "algowatch"

// config is the full application configuration, loaded from ALGOWATCH_*
// environment variables with the documented defaults.
type config struct {
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info" validate:"required"`
	TelemetryEnabled bool   `envconfig:"TELEMETRY_ENABLED" default:"false"`

	// Node API client.
	NodeURL        string        `envconfig:"NODE_URL" default:"https://testnet-api.algonode.cloud" validate:"required,url"`
	HTTPTimeout    time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	FetchRetryMax  int           `envconfig:"FETCH_RETRY_MAX" default:"3" validate:"min=0"`
	FetchRetryBase time.Duration `envconfig:"FETCH_RETRY_BASE" default:"1s"`

	// Refresh orchestrator.
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"60s" validate:"required"`

	// Watchlist persistence.
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"sqlite" validate:"oneof=sqlite redis"`
	SQLitePath     string `envconfig:"SQLITE_PATH" default:"algowatch.db"`
	RedisAddr      string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisUsername  string `envconfig:"REDIS_USERNAME"`
	RedisPassword  string `envconfig:"REDIS_PASSWORD"`
	RedisDB        int    `envconfig:"REDIS_DB" default:"0"`
}
