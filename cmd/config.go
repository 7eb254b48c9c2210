package cmd

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/phuslu/log"
)

// Config holds the CLI configuration.
type Config struct {
	APIKey   string `toml:"api_key"`   // Alpha Vantage API key
	CacheDir string `toml:"cache_dir"` // HTTP cache directory, OS temp dir when empty
	LogLevel string `toml:"log_level"` // phuslu/log level name, "info" when empty
}

const apiKeyEnv = "ALPHAVANTAGE_API_KEY"

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "stockfolio", "config.toml")
}

// loadConfig reads the TOML config file. A missing file yields the defaults;
// the API key falls back to the environment.
func loadConfig(path string) Config {
	if path == "" {
		path = defaultConfigPath()
	}
	var cfg Config
	if data, err := os.ReadFile(path); err == nil {
		// A malformed config is not fatal; flags and env still work.
		if err := toml.Unmarshal(data, &cfg); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("malformed config ignored")
		}
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(apiKeyEnv)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg
}
