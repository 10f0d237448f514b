// Package config loads the TOML configuration for the origintrace server.
//
// The configuration file has three sections, all optional:
//
//	[server]
//	addr = ":8080"
//	read_timeout = "15s"
//	write_timeout = "60s"
//	shutdown_timeout = "10s"
//
//	[cache]
//	backend = "file"    # file | redis | none
//	dir = ""            # file backend directory, empty means the user cache dir
//
//	[cache.redis]
//	addr = "localhost:6379"
//	db = 0
//	password = ""
//
//	[layout]
//	frame_width = 1920.0
//	frame_height = 1080.0
//	grid_size = 20.0
//	passes = 5
//
// Fields absent from the file keep their defaults, and [Load] on a missing
// file returns [Default] unchanged, so the server runs with no configuration
// at all.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/factlens/origintrace/pkg/errors"
	"github.com/factlens/origintrace/pkg/layout"
)

// Cache backends selectable in the [cache] section.
const (
	// BackendFile caches under a local directory. The default for
	// single-instance deployments.
	BackendFile = "file"

	// BackendRedis caches in a shared Redis instance so API replicas
	// reuse each other's results.
	BackendRedis = "redis"

	// BackendNone disables caching.
	BackendNone = "none"
)

// Default server settings.
const (
	DefaultAddr         = ":8080"
	DefaultReadTimeout  = 15 * time.Second
	DefaultShutdownGap  = 10 * time.Second
	DefaultWriteTimeout = 60 * time.Second

	DefaultRedisAddr = "localhost:6379"
)

// Duration wraps [time.Duration] so the TOML file can use strings like
// "15s" or "2m" instead of nanosecond integers.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText renders the duration back as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the root of the TOML document.
type Config struct {
	Server ServerConfig  `toml:"server"`
	Cache  CacheConfig   `toml:"cache"`
	Layout layout.Config `toml:"layout"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// Addr is the listen address in host:port form.
	Addr string `toml:"addr"`

	// ReadTimeout bounds reading a request, WriteTimeout writing its
	// response. Write is the longer of the two because PNG export shells
	// out to rsvg-convert.
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown once the process receives
	// SIGTERM. In-flight requests past this deadline are dropped.
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is one of file, redis, or none.
	Backend string `toml:"backend"`

	// Dir is the file backend's directory. Empty means the user cache
	// directory.
	Dir string `toml:"dir"`

	// Redis holds the connection settings for the redis backend.
	Redis RedisConfig `toml:"redis"`
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	// Addr is the host:port of the Redis server.
	Addr string `toml:"addr"`

	// DB is the database number.
	DB int `toml:"db"`

	// Password is the server password. Empty means no auth.
	Password string `toml:"password"`
}

// Default returns the configuration the server ships with: a file-backed
// cache, the stock layout, and a listener on [DefaultAddr].
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ReadTimeout:     Duration{DefaultReadTimeout},
			WriteTimeout:    Duration{DefaultWriteTimeout},
			ShutdownTimeout: Duration{DefaultShutdownGap},
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			Redis: RedisConfig{
				Addr: DefaultRedisAddr,
			},
		},
		Layout: layout.DefaultConfig(),
	}
}

// Load reads the TOML file at path on top of [Default]: fields the file
// sets win, everything else keeps its default. An empty path or a missing
// file is not an error, the defaults are returned as-is. An unreadable or
// invalid file is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks for values the server cannot run with. Zero layout
// fields are fine (the engine falls back to defaults), negative ones
// are not.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "server addr must not be empty")
	}
	if c.Server.ReadTimeout.Duration < 0 || c.Server.WriteTimeout.Duration < 0 ||
		c.Server.ShutdownTimeout.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "server timeouts must not be negative")
	}

	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errs.New(errs.ErrCodeInvalidConfig,
			"unknown cache backend %q (want file, redis, or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.Redis.Addr == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.redis.addr must not be empty")
	}

	if c.Layout.FrameWidth < 0 || c.Layout.FrameHeight < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "layout frame dimensions must not be negative")
	}
	if c.Layout.GridSize < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "layout grid size must not be negative")
	}
	if c.Layout.Passes < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "layout passes must not be negative")
	}
	return nil
}
