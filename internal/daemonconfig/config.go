package daemonconfig

import "time"

// App identifies the process in logs.
type App struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

// Server bounds the HTTP surface.
type Server struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	GracefulTimeout time.Duration `mapstructure:"graceful_timeout"`
}

// JWT carries signing material and token lifetimes. Secrets normally
// come from the environment, not the file.
type JWT struct {
	AccessSecret  string        `mapstructure:"access_secret"`
	RefreshSecret string        `mapstructure:"refresh_secret"`
	AccessTTL     time.Duration `mapstructure:"access_ttl"`
	RefreshTTL    time.Duration `mapstructure:"refresh_ttl"`
	Issuer        string        `mapstructure:"issuer"`
}

// Store locates the refresh-token store.
type Store struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Pool sizes the store connection pool.
type Pool struct {
	Min              int           `mapstructure:"min"`
	Max              int           `mapstructure:"max"`
	AcquireTimeout   time.Duration `mapstructure:"acquire_timeout"`
	IdleTimeout      time.Duration `mapstructure:"idle_timeout"`
	EvictionInterval time.Duration `mapstructure:"eviction_interval"`
}

// Directory locates the user database. An empty DSN disables the
// account endpoints; the token endpoints still work.
type Directory struct {
	DSN          string        `mapstructure:"dsn"`
	MaxConns     int32         `mapstructure:"max_conns"`
	MinConns     int32         `mapstructure:"min_conns"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

// Log selects the zap profile.
type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Audit toggles the JSON-lines audit stream on stderr.
type Audit struct {
	Enabled    bool `mapstructure:"enabled"`
	BufferSize int  `mapstructure:"buffer_size"`
}

// Config is the daemon configuration tree.
type Config struct {
	App       App       `mapstructure:"app"`
	Server    Server    `mapstructure:"server"`
	JWT       JWT       `mapstructure:"jwt"`
	Store     Store     `mapstructure:"store"`
	Pool      Pool      `mapstructure:"pool"`
	Directory Directory `mapstructure:"directory"`
	Log       Log       `mapstructure:"log"`
	Audit     Audit     `mapstructure:"audit"`
}
