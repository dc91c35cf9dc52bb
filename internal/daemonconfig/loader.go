package daemonconfig

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Load reads the YAML file at path (optional) and layers environment
// variables over it. Keys map to env vars with dots replaced by
// underscores, e.g. jwt.access_secret -> JWT_ACCESS_SECRET.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	v.SetDefault("app.name", "tokenvaultd")
	v.SetDefault("app.env", "dev")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "5s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.graceful_timeout", "15s")

	// Secrets must be registered for AutomaticEnv to see them; they are
	// expected from JWT_ACCESS_SECRET / JWT_REFRESH_SECRET.
	v.SetDefault("jwt.access_secret", "")
	v.SetDefault("jwt.refresh_secret", "")
	v.SetDefault("jwt.access_ttl", "2h")
	v.SetDefault("jwt.refresh_ttl", "720h")
	v.SetDefault("jwt.issuer", "")

	v.SetDefault("store.addr", "127.0.0.1:6379")
	v.SetDefault("store.username", "")
	v.SetDefault("store.password", "")
	v.SetDefault("store.db", 0)

	v.SetDefault("pool.min", 1)
	v.SetDefault("pool.max", 10)
	v.SetDefault("pool.acquire_timeout", "5s")
	v.SetDefault("pool.idle_timeout", "5m")
	v.SetDefault("pool.eviction_interval", "1m")

	v.SetDefault("directory.dsn", "")
	v.SetDefault("directory.max_conns", 10)
	v.SetDefault("directory.min_conns", 2)
	v.SetDefault("directory.query_timeout", "2s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("audit.enabled", false)
	v.SetDefault("audit.buffer_size", 256)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.JWT.AccessSecret == "" || cfg.JWT.RefreshSecret == "" {
		return nil, errors.New("jwt.access_secret and jwt.refresh_secret are required")
	}
	return &cfg, nil
}
