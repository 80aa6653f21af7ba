// Package config loads application configuration via viper and initializes
// the global zap logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/JGaukrogers/parkapi-sources-v3/internal/model"
)

// Config holds the full application configuration. Source credential keys
// (e.g. kienzler.offenburg.user) stay in the underlying viper instance and
// are read through Get/Require.
type Config struct {
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Overlay OverlayConfig `yaml:"overlay" mapstructure:"overlay"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`

	v *viper.Viper
}

// FetchConfig configures the HTTP fetch collaborator.
type FetchConfig struct {
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// Timeout returns the fetch timeout as a duration.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSecs) * time.Second
}

// OverlayConfig configures where the static geodata overlay collections are
// fetched from. BasePath, when set, overrides BaseURL with a local directory
// of <source-uid>.geojson files.
type OverlayConfig struct {
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	BasePath string `yaml:"base_path" mapstructure:"base_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PARKAPI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("fetch.user_agent", "parkapi-sources/1.0")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("overlay.base_url", "https://raw.githubusercontent.com/ParkenDD/parkapi-static-data/main/sources")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	cfg.v = v

	return &cfg, nil
}

// Set overrides a configuration value at runtime.
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

// Get returns an arbitrary configuration value as a string, "" when unset.
func (c *Config) Get(key string) string {
	return c.v.GetString(key)
}

// Require verifies that every key is set, so misconfigured sources fail
// before any network activity. The returned error is a *model.ConfigError.
func (c *Config) Require(sourceUID string, keys ...string) error {
	var missing []string
	for _, key := range keys {
		if c.v.GetString(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &model.ConfigError{SourceUID: sourceUID, MissingKeys: missing}
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
