package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "hackeval.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, int64(2048), cfg.LLM.MaxTokens)
	assert.Equal(t, 50, cfg.LLM.RequestsPerMinute)
	assert.Equal(t, 8, cfg.Pipeline.BatchSize)
	assert.Equal(t, 3, cfg.Pipeline.RetryAttempts)
	assert.Equal(t, 5*time.Second, cfg.Pipeline.RetryBackoff)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	chdirTemp(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/hackeval
pipeline:
  batch_size: 4
  retry_backoff: 2s
log:
  level: debug
  format: console
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 4, cfg.Pipeline.BatchSize)
	assert.Equal(t, 2*time.Second, cfg.Pipeline.RetryBackoff)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply for unset values
	assert.Equal(t, 3, cfg.Pipeline.RetryAttempts)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	chdirTemp(t)

	yaml := `
store:
  driver: sqlite
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("HACKEVAL_STORE_DRIVER", "postgres")
	t.Setenv("HACKEVAL_LLM_API_KEY", "sk-ant-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "sk-ant-test", cfg.LLM.APIKey)
}

func TestValidatePipeline(t *testing.T) {
	cfg := &Config{
		Store:    StoreConfig{Driver: "sqlite", DatabaseURL: "hackeval.db"},
		LLM:      LLMConfig{APIKey: "sk-ant-test"},
		Pipeline: PipelineConfig{BatchSize: 8},
	}
	assert.NoError(t, cfg.Validate("pipeline"))

	cfg.LLM.APIKey = ""
	err := cfg.Validate("pipeline")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.api_key is required")
}

func TestValidateServe_Port(t *testing.T) {
	cfg := &Config{
		Store:    StoreConfig{Driver: "sqlite", DatabaseURL: "hackeval.db"},
		LLM:      LLMConfig{APIKey: "sk-ant-test"},
		Pipeline: PipelineConfig{BatchSize: 8},
	}

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")

	cfg.Server.Port = 8080
	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateImport_NoCredentialsNeeded(t *testing.T) {
	cfg := &Config{Store: StoreConfig{Driver: "sqlite", DatabaseURL: "hackeval.db"}}
	assert.NoError(t, cfg.Validate("import"))
}

func TestValidateBadDriver(t *testing.T) {
	cfg := &Config{Store: StoreConfig{Driver: "mysql", DatabaseURL: "x"}}
	err := cfg.Validate("migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver must be postgres or sqlite")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := &Config{Store: StoreConfig{Driver: "sqlite", DatabaseURL: "x"}}
	err := cfg.Validate("unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
