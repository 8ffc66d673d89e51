package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/internal/retry"
)

var (
	// fileCfg is the config loaded from testdata/config.yml.
	fileCfg = &Config{
		Log:      LogConfig{Level: "debug"},
		Networks: NetworksConfig{Path: "./networks.yaml"},
		Indexer:  IndexerConfig{URL: "https://indexer.daodao.zone"},
		Query: QueryConfig{
			RetryAttempts: 5,
			RetryDelay:    time.Second,
			Timeout:       10 * time.Second,
		},
	}

	defaultCfg = &Config{
		Log:      LogConfig{Level: "info"},
		Networks: NetworksConfig{Path: "networks.yaml"},
		Query: QueryConfig{
			RetryAttempts: retry.DefaultConfig.Attempts,
			RetryDelay:    retry.DefaultConfig.Delay,
			Timeout:       retry.DefaultConfig.AttemptTimeout,
		},
	}

	envVars = map[string]string{
		"DAOCTL_LOG_LEVEL":            "warn",
		"DAOCTL_NETWORKS_PATH":        "/etc/daoctl/networks.yaml",
		"DAOCTL_INDEXER_URL":          "http://localhost:3000",
		"DAOCTL_QUERY_RETRY_ATTEMPTS": "2",
		"DAOCTL_QUERY_RETRY_DELAY":    "50ms",
		"DAOCTL_QUERY_TIMEOUT":        "5s",
	}

	legacyEnvVars = map[string]string{
		"LOG_LEVEL":   "warn",
		"INDEXER_URL": "http://localhost:3000",
		// These values do not have a legacy equivalent
		"DAOCTL_NETWORKS_PATH":        "/etc/daoctl/networks.yaml",
		"DAOCTL_QUERY_RETRY_ATTEMPTS": "2",
		"DAOCTL_QUERY_RETRY_DELAY":    "50ms",
		"DAOCTL_QUERY_TIMEOUT":        "5s",
	}

	envCfg = &Config{
		Log:      LogConfig{Level: "warn"},
		Networks: NetworksConfig{Path: "/etc/daoctl/networks.yaml"},
		Indexer:  IndexerConfig{URL: "http://localhost:3000"},
		Query: QueryConfig{
			RetryAttempts: 2,
			RetryDelay:    50 * time.Millisecond,
			Timeout:       5 * time.Second,
		},
	}
)

func Test_Load(t *testing.T) { //nolint:paralleltest // see comment in setupEnvVars
	tests := []struct {
		name       string
		beforeFunc func(t *testing.T)
		givePath   string
		want       *Config
	}{
		{
			name:     "load from file",
			givePath: "./testdata/config.yml",
			want:     fileCfg,
		},
		{
			name:     "load from empty file uses defaults",
			givePath: "./testdata/empty.yml",
			want:     defaultCfg,
		},
		{
			name: "override with env",
			beforeFunc: func(t *testing.T) {
				t.Helper()

				setupEnvVars(t, envVars)
			},
			givePath: "./testdata/config.yml",
			want:     envCfg,
		},
		{
			name: "fallback to env when file not found",
			beforeFunc: func(t *testing.T) {
				t.Helper()

				setupEnvVars(t, envVars)
			},
			givePath: "./testdata/invalid.yml",
			want:     envCfg,
		},
	}

	for _, tt := range tests { //nolint:paralleltest // see comment in setupEnvVars
		t.Run(tt.name, func(t *testing.T) {
			if tt.beforeFunc != nil {
				tt.beforeFunc(t)
			}

			got, err := Load(tt.givePath)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_LoadFile(t *testing.T) {
	t.Parallel()

	got, err := LoadFile("./testdata/config.yml")
	require.NoError(t, err)
	assert.Equal(t, fileCfg, got)

	_, err = LoadFile("./testdata/invalid.yml")
	require.ErrorContains(t, err, "no such file or directory")
}

func Test_LoadEnv(t *testing.T) { //nolint:paralleltest // see comment in setupEnvVars
	setupEnvVars(t, envVars)

	got, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, envCfg, got)
}

func Test_LoadEnv_Legacy(t *testing.T) { //nolint:paralleltest // see comment in setupEnvVars
	setupEnvVars(t, legacyEnvVars)

	got, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, envCfg, got)
}

func Test_YAML_Unmarshal(t *testing.T) {
	t.Parallel()

	b, err := os.ReadFile("./testdata/config.yml")
	require.NoError(t, err)

	var cfg Config
	require.NoError(t, yaml.Unmarshal(b, &cfg))
	assert.Equal(t, *fileCfg, cfg)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, fileCfg.Validate())

	bad := *fileCfg
	bad.Log.Level = "loud"
	require.ErrorContains(t, bad.Validate(), "invalid log level")

	bad = *fileCfg
	bad.Networks.Path = ""
	require.ErrorContains(t, bad.Validate(), "networks path is required")

	assert.Equal(t, retry.Config{Attempts: 5, Delay: time.Second, AttemptTimeout: 10 * time.Second}, fileCfg.Retry())
}

// setupEnvVars sets up the environment variables for the test.
//
// CAUTION: t.Setenv affects the entire process, so tests calling this cannot run in parallel.
func setupEnvVars(t *testing.T, envVars map[string]string) {
	t.Helper()

	for key, value := range envVars {
		t.Setenv(key, value)
	}
}
