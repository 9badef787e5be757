package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigError reports a problem reading or parsing configuration.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// Load reads the config file at path. A missing file yields defaults; a
// malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// applyEnvOverrides lets a couple of settings be flipped without editing the
// file, which is handy in scripts and CI.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PREPDECK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PREPDECK_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}
}
