// Package config loads the runtime configuration of the daoctl CLI from a YAML file and
// DAOCTL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/internal/retry"
)

// LogConfig is the configuration of the logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // One of debug, info, warn, error
}

// NetworksConfig points at the network manifest.
type NetworksConfig struct {
	Path string `mapstructure:"path" yaml:"path"` // The path to the networks YAML manifest
}

// IndexerConfig is the configuration of the DAO indexer.
type IndexerConfig struct {
	URL string `mapstructure:"url" yaml:"url,omitempty"` // Overrides the indexer of every network when set
}

// QueryConfig tunes read queries. Transactions are never retried.
type QueryConfig struct {
	RetryAttempts uint          `mapstructure:"retry_attempts" yaml:"retry_attempts"` // Total attempts per read, including the first
	RetryDelay    time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`       // Base delay between attempts
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`               // Timeout of a single attempt
}

// Config wraps the entire configuration of the CLI.
type Config struct {
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Networks NetworksConfig `mapstructure:"networks" yaml:"networks"`
	Indexer  IndexerConfig  `mapstructure:"indexer" yaml:"indexer"`
	Query    QueryConfig    `mapstructure:"query" yaml:"query"`
}

// Retry returns the retry config of read queries.
func (c *Config) Retry() retry.Config {
	return retry.Config{
		Attempts:       c.Query.RetryAttempts,
		Delay:          c.Query.RetryDelay,
		AttemptTimeout: c.Query.Timeout,
	}
}

// Validate checks the values that would otherwise fail later.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if c.Networks.Path == "" {
		return errors.New("networks path is required")
	}

	return nil
}

// Load loads the config from the file path, falling back to env vars if the file does not exist.
// If the file exists, any env vars that are set will override the values loaded from the file.
func Load(filePath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(filePath)

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	return unmarshal(v)
}

// LoadEnv loads the config from the environment variables.
func LoadEnv() (*Config, error) {
	v := newViper()

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	return unmarshal(v)
}

// LoadFile loads the config from a file.
func LoadFile(filePath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(filePath)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("log.level", "info")
	v.SetDefault("networks.path", "networks.yaml")
	v.SetDefault("query.retry_attempts", retry.DefaultConfig.Attempts)
	v.SetDefault("query.retry_delay", retry.DefaultConfig.Delay)
	v.SetDefault("query.timeout", retry.DefaultConfig.AttemptTimeout)

	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	err := v.Unmarshal(cfg)

	return cfg, err
}

var (
	// envBindings maps config keys to the environment variables that can provide them. The first
	// name is preferred; later names are older aliases checked in order.
	envBindings = map[string][]string{
		"log.level":            {"DAOCTL_LOG_LEVEL", "LOG_LEVEL"},
		"networks.path":        {"DAOCTL_NETWORKS_PATH"},
		"indexer.url":          {"DAOCTL_INDEXER_URL", "INDEXER_URL"},
		"query.retry_attempts": {"DAOCTL_QUERY_RETRY_ATTEMPTS"},
		"query.retry_delay":    {"DAOCTL_QUERY_RETRY_DELAY"},
		"query.timeout":        {"DAOCTL_QUERY_TIMEOUT"},
	}
)

// bindEnvs binds the environment variables to the viper instance.
func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		inputs := slices.Insert(slices.Clone(envs), 0, key)

		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}

	return nil
}
