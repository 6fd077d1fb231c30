package types

import "errors"

// Config holds backend selection and parameters for opening a Store.
type Config struct {
	Backend      string      `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir      string      `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	SyncStrategy string      `json:"sync_strategy" yaml:"sync_strategy" mapstructure:"sync_strategy"`
	Redis        RedisConfig `json:"redis" yaml:"redis" mapstructure:"redis"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr" mapstructure:"addr"`
	Password string `json:"password" yaml:"password" mapstructure:"password"`
	DB       int    `json:"db" yaml:"db" mapstructure:"db"`
	Prefix   string `json:"prefix" yaml:"prefix" mapstructure:"prefix"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Sync strategies for the sqlite backend.
const (
	SyncImmediate = "immediate"
	SyncOnClose   = "on_close"
)

// Config validation errors.
var (
	ErrBackendEmpty        = errors.New("backend must not be empty")
	ErrBackendUnknown      = errors.New("unknown backend")
	ErrSyncStrategyUnknown = errors.New("unknown sync strategy")
	ErrRedisAddrEmpty      = errors.New("redis address must not be empty")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendRedis:  true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	switch c.SyncStrategy {
	case "", SyncImmediate, SyncOnClose:
	default:
		return ErrSyncStrategyUnknown
	}
	if c.Backend == BackendRedis && c.Redis.Addr == "" {
		return ErrRedisAddrEmpty
	}
	return nil
}

// GetSyncStrategy returns the effective sync strategy, defaulting to
// immediate.
func (c Config) GetSyncStrategy() string {
	if c.SyncStrategy == "" {
		return SyncImmediate
	}
	return c.SyncStrategy
}
