// Package config loads and validates prepdeck configuration.
package config

// Config is the root configuration for prepdeck.
type Config struct {
	Interview InterviewConfig `yaml:"interview,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
	History   HistoryConfig   `yaml:"history,omitempty"`
	Catalog   CatalogConfig   `yaml:"catalog,omitempty"`
}

// InterviewConfig controls the turn engine.
type InterviewConfig struct {
	MaxTurns    int `yaml:"maxTurns,omitempty"`    // questions per interview; 0 runs until the bank is exhausted
	EvalRetries int `yaml:"evalRetries,omitempty"` // evaluation attempts before giving up on a turn
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"`        // trace|debug|info|warn|error|fatal|silent
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "json"
}

// HistoryConfig controls the completed-interview archive.
type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"` // defaults true
	Path    string `yaml:"path,omitempty"`    // defaults to <data dir>/history.db
}

// HistoryEnabled resolves the tri-state Enabled flag.
func (h HistoryConfig) HistoryEnabled() bool {
	return h.Enabled == nil || *h.Enabled
}

// CatalogConfig lets users extend the built-in role catalog.
type CatalogConfig struct {
	ExtraRoles []RoleEntry `yaml:"extraRoles,omitempty"`
}

// RoleEntry defines one user-supplied role.
type RoleEntry struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Domains []string `yaml:"domains"`
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		Interview: InterviewConfig{
			MaxTurns:    5,
			EvalRetries: 3,
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
	}
}

// applyDefaults fills zero values left by a partial config file.
func applyDefaults(cfg *Config) {
	def := Defaults()
	if cfg.Interview.MaxTurns == 0 {
		cfg.Interview.MaxTurns = def.Interview.MaxTurns
	}
	if cfg.Interview.EvalRetries == 0 {
		cfg.Interview.EvalRetries = def.Interview.EvalRetries
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.ConsoleStyle == "" {
		cfg.Logging.ConsoleStyle = def.Logging.ConsoleStyle
	}
}
