package config

import (
	"os"
	"path/filepath"
)

const defaultBaseDir = ".prepdeck"

// Paths holds resolved filesystem paths for prepdeck data.
type Paths struct {
	Base   string // ~/.prepdeck
	Config string // ~/.prepdeck/config.yaml
	Data   string // ~/.prepdeck/data
	Logs   string // ~/.prepdeck/logs
}

// ResolvePaths computes the standard paths from the home directory.
// PREPDECK_HOME overrides the default base directory.
func ResolvePaths() (Paths, error) {
	base := os.Getenv("PREPDECK_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}
		base = filepath.Join(home, defaultBaseDir)
	}

	return Paths{
		Base:   base,
		Config: filepath.Join(base, "config.yaml"),
		Data:   filepath.Join(base, "data"),
		Logs:   filepath.Join(base, "logs"),
	}, nil
}

// EnsureDirs creates the standard directories if they don't exist.
func (p Paths) EnsureDirs() error {
	for _, d := range []string{p.Base, p.Data, p.Logs} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return err
		}
	}
	return nil
}

// HistoryDBPath resolves the history database location, preferring the
// configured path.
func (p Paths) HistoryDBPath(cfg Config) string {
	if cfg.History.Path != "" {
		return cfg.History.Path
	}
	return filepath.Join(p.Data, "history.db")
}
