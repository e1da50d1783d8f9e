package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/campusops/portward/internal/assignment"
	"github.com/campusops/portward/internal/config"
)

// resolveLogin returns the explicit --user value, falling back to $USER.
func resolveLogin(userFlag string) (string, error) {
	if userFlag != "" {
		return userFlag, nil
	}
	return assignment.CurrentLogin()
}

// newRegistry builds a registry that discovers the encrypted store in the
// configured assignments directory.
func newRegistry(cfg *config.Config) *assignment.Registry {
	return &assignment.Registry{SearchDir: cfg.AssignmentsDir}
}

// authorize loads config, builds the registry and resolves the record for
// the requested user. Most subcommands start exactly this way.
func authorize(userFlag string) (*config.Config, *assignment.Assignment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	login, err := resolveLogin(userFlag)
	if err != nil {
		return nil, nil, err
	}

	rec, err := newRegistry(cfg).Get(login)
	if err != nil {
		return nil, nil, err
	}

	return cfg, rec, nil
}

// printJSON renders v as indented JSON on stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
