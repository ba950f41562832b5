package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HAUSBUCH_BASE_CURRENCY", "HAUSBUCH_DATA_DIR", "HAUSBUCH_STORE_BACKEND",
		"HAUSBUCH_DEPOSIT_KEYWORD", "HAUSBUCH_DYNAMODB_TABLE", "HAUSBUCH_DYNAMODB_REGION",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	// Point the default location at an empty home directory
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "EUR", cfg.BaseCurrency)
	assert.Equal(t, "./hausbuch_data", cfg.DataDir)
	assert.Equal(t, BackendLocal, cfg.StoreBackend)
	assert.Equal(t, "Pfand", cfg.DepositKeyword)
	assert.Equal(t, "eu-central-1", cfg.DynamoDB.Region)
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
base_currency = "CNY"
data_dir = "/tmp/hausbuch"
deposit_keyword = "押金"

[dynamodb]
table_name = "hausbuch"
region = "us-east-1"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "CNY", cfg.BaseCurrency)
	assert.Equal(t, "/tmp/hausbuch", cfg.DataDir)
	assert.Equal(t, "押金", cfg.DepositKeyword)
	assert.Equal(t, BackendLocal, cfg.StoreBackend, "unset keys keep their defaults")
	assert.Equal(t, "hausbuch", cfg.DynamoDB.TableName)
	assert.Equal(t, "us-east-1", cfg.DynamoDB.Region)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `base_currency = "CNY"`)
	t.Setenv("HAUSBUCH_BASE_CURRENCY", "USD")
	t.Setenv("HAUSBUCH_STORE_BACKEND", "dynamodb")
	t.Setenv("HAUSBUCH_DYNAMODB_TABLE", "hausbuch-prod")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "USD", cfg.BaseCurrency)
	assert.Equal(t, BackendDynamoDB, cfg.StoreBackend)
	assert.Equal(t, "hausbuch-prod", cfg.DynamoDB.TableName)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_Validation(t *testing.T) {
	clearEnv(t)

	// DynamoDB backend without a table name
	_, err := Load(writeConfig(t, `store_backend = "dynamodb"`))
	assert.Error(t, err)

	// Unknown backend
	_, err = Load(writeConfig(t, `store_backend = "s3"`))
	assert.Error(t, err)

	// Local backend without a data dir
	_, err = Load(writeConfig(t, `data_dir = ""`))
	assert.Error(t, err)
}
