// Config loading for the mala CLI.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/mala/internal/paths"
	"github.com/mesh-intelligence/mala/internal/redis"
	"github.com/mesh-intelligence/mala/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix    = "MALA"
	envConfigDir = "MALA_CONFIG_DIR"
	envDataDir   = "MALA_DATA_DIR"

	cfgKeyConfigDir     = "config_dir"

	cfgKeyBackend       = "backend"
	cfgKeyDataDir       = "data_dir"
	cfgKeySyncStrategy  = "sync_strategy"
	cfgKeyRedisAddr     = "redis.addr"
	cfgKeyRedisPassword = "redis.password"
	cfgKeyRedisDB       = "redis.db"
	cfgKeyRedisPrefix   = "redis.prefix"
	cfgKeyServeAddr     = "serve.addr"
	cfgKeyLogLevel      = "log_level"

	defaultBackend   = types.BackendSQLite
	defaultServeAddr = "127.0.0.1:8420"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# mala configuration

# Storage backend: sqlite or redis
backend: sqlite

# Data directory for the sqlite backend (optional; MALA_DATA_DIR and
# --data-dir take precedence)
# data_dir:

# immediate writes JSONL on every change; on_close batches until exit
sync_strategy: immediate

redis:
  addr: localhost:6379
  password: ""
  db: 0
  prefix: "mala:"

serve:
  addr: 127.0.0.1:8420

# debug, info, warn or error
log_level: warn
`

// settings is the decoded config.yaml.
type settings struct {
	types.Config `mapstructure:",squash"`

	Serve struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"serve"`
	LogLevel string `mapstructure:"log_level"`
}

// flagKeys maps persistent flags onto the config keys they override.
var flagKeys = map[string]string{
	"data-dir":  cfgKeyDataDir,
	"backend":   cfgKeyBackend,
	"log-level": cfgKeyLogLevel,
}

// resolveConfigDir picks the config directory: --config-dir, then
// MALA_CONFIG_DIR, then the platform default.
func resolveConfigDir(flags *pflag.FlagSet) (string, error) {
	v := viper.New()
	if err := v.BindPFlag(cfgKeyConfigDir, flags.Lookup("config-dir")); err != nil {
		return "", fmt.Errorf("bind config-dir: %w", err)
	}
	if err := v.BindEnv(cfgKeyConfigDir, envConfigDir); err != nil {
		return "", fmt.Errorf("bind %s: %w", envConfigDir, err)
	}

	dir := v.GetString(cfgKeyConfigDir)
	if dir == "" {
		defaults, err := paths.Default()
		if err != nil {
			return "", err
		}
		dir = defaults.Config
	}
	return filepath.Abs(dir)
}

// loadConfig reads config.yaml from configDir using Viper. It creates the
// config directory and a default config.yaml on first run.
//
// Each key resolves as flag, then MALA_ environment variable, then
// config.yaml, then the built-in default.
func loadConfig(configDir string, flags *pflag.FlagSet) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyDataDir, "")
	v.SetDefault(cfgKeySyncStrategy, types.SyncImmediate)
	v.SetDefault(cfgKeyRedisAddr, "")
	v.SetDefault(cfgKeyRedisPassword, "")
	v.SetDefault(cfgKeyRedisDB, 0)
	v.SetDefault(cfgKeyRedisPrefix, redis.DefaultPrefix)
	v.SetDefault(cfgKeyServeAddr, defaultServeAddr)
	v.SetDefault(cfgKeyLogLevel, "warn")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(cfgKeyDataDir, envDataDir); err != nil {
		return nil, fmt.Errorf("bind %s: %w", envDataDir, err)
	}

	if flags != nil {
		for name, key := range flagKeys {
			if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
				return nil, fmt.Errorf("bind %s: %w", name, err)
			}
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func decodeSettings(v *viper.Viper) (settings, error) {
	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return settings{}, fmt.Errorf("decode config: %w", err)
	}
	return s, nil
}

// resolveDataDir makes dir absolute, falling back to the platform default
// when no source named one.
func resolveDataDir(dir string) (string, error) {
	if dir == "" {
		defaults, err := paths.Default()
		if err != nil {
			return "", err
		}
		dir = defaults.Data
	}
	return filepath.Abs(dir)
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
