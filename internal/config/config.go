// README: Config loader with env defaults for HTTP, Redis telemetry, and logging.
package config

import "os"

type Config struct {
	HTTP struct {
		Addr string
	}
	Redis struct {
		// Addr is the optional endpoint for the driver-position telemetry
		// mirror. Empty disables the mirror entirely.
		Addr string
	}
	Log struct {
		Level string
	}
}

func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("LIFELINE_HTTP_ADDR", ":3000")
	cfg.Redis.Addr = envOrDefault("LIFELINE_REDIS_ADDR", "")
	cfg.Log.Level = envOrDefault("LIFELINE_LOG_LEVEL", "info")
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
