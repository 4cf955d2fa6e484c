// Package config loads planforge settings from config.yaml in the config
// directory, with PLANFORGE_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "PLANFORGE"
	// EnvConfigDir selects the config directory when no flag is given.
	EnvConfigDir = "PLANFORGE_CONFIG_DIR"

	defaultDirName = ".planforge"
	defaultDBName  = "planforge.db"
)

const (
	keyDBPath          = "db_path"
	keyUser            = "user"
	keyLogLevel        = "log.level"
	keyLogUseCases     = "log.use_cases"
	keyMaxTags         = "limits.max_tags"
	keyMaxDependencies = "limits.max_dependencies"
	keyMaxTitleLength  = "limits.max_title_length"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# planforge configuration

# SQLite database file (default: <config dir>/planforge.db)
# db_path:

# Name recorded on plan status history entries (default: $USER)
# user:

log:
  # debug, info, warn or error
  level: info
  # log every service use case to stderr
  use_cases: false

limits:
  max_tags: 10
  max_dependencies: 20
  max_title_length: 120
`

// ErrInvalidLogLevel is returned for an unknown log.level value.
var ErrInvalidLogLevel = errors.New("invalid log level")

type LogConfig struct {
	Level    string `mapstructure:"level"`
	UseCases bool   `mapstructure:"use_cases"`
}

type LimitsConfig struct {
	MaxTags         int `mapstructure:"max_tags"`
	MaxDependencies int `mapstructure:"max_dependencies"`
	MaxTitleLength  int `mapstructure:"max_title_length"`
}

// Config holds every planforge setting.
type Config struct {
	Dir    string       `mapstructure:"-"`
	DBPath string       `mapstructure:"db_path"`
	User   string       `mapstructure:"user"`
	Log    LogConfig    `mapstructure:"log"`
	Limits LimitsConfig `mapstructure:"limits"`
}

// ResolveDir picks the config directory: the flag value, then
// PLANFORGE_CONFIG_DIR, then ~/.planforge.
func ResolveDir(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(EnvConfigDir); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, defaultDirName), nil
}

// Load reads config.yaml from configDir, creating the directory and a
// default file on first run. A missing file is not an error.
func Load(configDir string) (*Config, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := newViper(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Dir = configDir
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(configDir, defaultDBName)
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newViper(configDir string) *viper.Viper {
	v := viper.New()
	v.SetDefault(keyDBPath, "")
	v.SetDefault(keyUser, os.Getenv("USER"))
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogUseCases, false)
	limits := domain.DefaultLimits()
	v.SetDefault(keyMaxTags, limits.MaxTags)
	v.SetDefault(keyMaxDependencies, limits.MaxDependencies)
	v.SetDefault(keyMaxTitleLength, limits.MaxTitleLength)

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// PLANFORGE_DB is the short form of PLANFORGE_DB_PATH.
	_ = v.BindEnv(keyDBPath, EnvPrefix+"_DB", EnvPrefix+"_DB_PATH")
	return v
}

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

// SlogLevel parses Log.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("%w %q (expected debug, info, warn or error)", ErrInvalidLogLevel, c.Log.Level)
	}
	return level, nil
}

// DomainLimits converts the limits section, falling back to the defaults for
// non-positive values.
func (c *Config) DomainLimits() domain.Limits {
	d := domain.DefaultLimits()
	return domain.Limits{
		MaxTitleLength:  positiveOr(c.Limits.MaxTitleLength, d.MaxTitleLength),
		MaxTags:         positiveOr(c.Limits.MaxTags, d.MaxTags),
		MaxDependencies: positiveOr(c.Limits.MaxDependencies, d.MaxDependencies),
	}
}

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
