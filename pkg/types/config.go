package types

// Config is the parsed shedwatch.yaml project configuration.
type Config struct {
	Provider string          `yaml:"provider"` // "postgres" or "memory"
	Postgres *PostgresConfig `yaml:"postgres,omitempty"`
	Redis    *RedisConfig    `yaml:"redis,omitempty"`
	Feed     FeedConfig      `yaml:"feed"`
	Server   *ServerConfig   `yaml:"server,omitempty"`
}

// PostgresConfig configures the durable reference store.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// RedisConfig configures the optional reconcile tick lock shared between
// replicas. Leaving it out runs the reconciler unlocked.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password,omitempty"`
	DB        int    `yaml:"db,omitempty"`
	KeyPrefix string `yaml:"keyPrefix,omitempty"`
}

// FeedConfig configures the authoritative stage-interval feed.
type FeedConfig struct {
	URL      string `yaml:"url"`
	Interval string `yaml:"interval,omitempty"` // poll period, default 1h
	Timeout  string `yaml:"timeout,omitempty"`  // per-fetch timeout, default 30s
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr           string `yaml:"addr,omitempty"`
	APIKey         string `yaml:"apiKey,omitempty"`
	MaxRequestBody int64  `yaml:"maxRequestBody,omitempty"`
}
