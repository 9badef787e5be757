package config

import (
	"fmt"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.Interview.MaxTurns < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "interview.maxTurns",
			Message: fmt.Sprintf("must not be negative, got %d", cfg.Interview.MaxTurns),
		})
	}

	if cfg.Interview.EvalRetries < 1 || cfg.Interview.EvalRetries > 10 {
		issues = append(issues, ValidationIssue{
			Path:    "interview.evalRetries",
			Message: fmt.Sprintf("must be 1-10, got %d", cfg.Interview.EvalRetries),
		})
	}

	validLevels := []string{"trace", "debug", "info", "warn", "error", "fatal", "silent"}
	if cfg.Logging.Level != "" && !slices.Contains(validLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLevels, cfg.Logging.Level),
		})
	}

	validStyles := []string{"pretty", "json"}
	if cfg.Logging.ConsoleStyle != "" && !slices.Contains(validStyles, cfg.Logging.ConsoleStyle) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.consoleStyle",
			Message: fmt.Sprintf("must be one of %v, got %q", validStyles, cfg.Logging.ConsoleStyle),
		})
	}

	seen := make(map[string]bool)
	for i, role := range cfg.Catalog.ExtraRoles {
		path := fmt.Sprintf("catalog.extraRoles[%d]", i)
		if role.ID == "" {
			issues = append(issues, ValidationIssue{Path: path + ".id", Message: "must not be empty"})
		}
		if role.Title == "" {
			issues = append(issues, ValidationIssue{Path: path + ".title", Message: "must not be empty"})
		}
		if len(role.Domains) == 0 {
			issues = append(issues, ValidationIssue{Path: path + ".domains", Message: "must list at least one domain"})
		}
		if role.ID != "" && seen[role.ID] {
			issues = append(issues, ValidationIssue{Path: path + ".id", Message: fmt.Sprintf("duplicate role id %q", role.ID)})
		}
		seen[role.ID] = true
	}

	return issues
}
