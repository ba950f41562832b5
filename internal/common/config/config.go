// Package config loads the application configuration: a TOML file with
// environment-variable overrides on top, falling back to defaults that run
// against a local data directory out of the box.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Store backends
const (
	BackendLocal    = "local"
	BackendDynamoDB = "dynamodb"
)

// Config represents the application configuration
type Config struct {
	// BaseCurrency is the currency every value normalizes to
	BaseCurrency string `toml:"base_currency"`

	// DataDir is the local store directory
	DataDir string `toml:"data_dir"`

	// StoreBackend selects the record store: "local" or "dynamodb"
	StoreBackend string `toml:"store_backend"`

	// DepositKeyword marks deposit-bearing items by name or category
	DepositKeyword string `toml:"deposit_keyword"`

	DynamoDB DynamoDBConfig `toml:"dynamodb"`
}

// DynamoDBConfig configures the DynamoDB backend
type DynamoDBConfig struct {
	TableName string `toml:"table_name"`
	Region    string `toml:"region"`
}

// DefaultConfig returns the configuration used when no file and no
// environment overrides are present
func DefaultConfig() *Config {
	return &Config{
		BaseCurrency:   "EUR",
		DataDir:        "./hausbuch_data",
		StoreBackend:   BackendLocal,
		DepositKeyword: "Pfand",
		DynamoDB: DynamoDBConfig{
			Region: "eu-central-1",
		},
	}
}

// DefaultPath is the conventional config file location, ~/.hausbuch/config.toml
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".hausbuch", "config.toml")
}

// Load reads the configuration from path, then applies environment
// overrides. An empty path means the default location; a missing file at the
// default location is fine, a missing explicit file is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if explicit || !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	applyEnv(cfg)
	return cfg, cfg.validate()
}

// applyEnv lays HAUSBUCH_* environment variables over the file values
func applyEnv(cfg *Config) {
	if v := os.Getenv("HAUSBUCH_BASE_CURRENCY"); v != "" {
		cfg.BaseCurrency = v
	}
	if v := os.Getenv("HAUSBUCH_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("HAUSBUCH_STORE_BACKEND"); v != "" {
		cfg.StoreBackend = v
	}
	if v := os.Getenv("HAUSBUCH_DEPOSIT_KEYWORD"); v != "" {
		cfg.DepositKeyword = v
	}
	if v := os.Getenv("HAUSBUCH_DYNAMODB_TABLE"); v != "" {
		cfg.DynamoDB.TableName = v
	}
	if v := os.Getenv("HAUSBUCH_DYNAMODB_REGION"); v != "" {
		cfg.DynamoDB.Region = v
	}
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendLocal:
		if c.DataDir == "" {
			return errors.New("data_dir is required for the local backend")
		}
	case BackendDynamoDB:
		if c.DynamoDB.TableName == "" {
			return errors.New("dynamodb.table_name is required for the dynamodb backend")
		}
	default:
		return errors.New("store_backend must be \"local\" or \"dynamodb\"")
	}
	if c.BaseCurrency == "" {
		return errors.New("base_currency must not be empty")
	}
	return nil
}
