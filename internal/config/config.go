package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Config represents the portward configuration
type Config struct {
	// ProjectsDir is the base directory holding one subdirectory per
	// compose project.
	ProjectsDir string

	// AssignmentsDir is searched for the versioned encrypted assignment
	// file when no explicit path is given.
	AssignmentsDir string

	// HistoryDB is the path of the verification-run log.
	HistoryDB string
}

// Load reads configuration in ascending priority: built-in defaults, then
// ~/.portward/config, then .portward.config, then .portward.config.local.
// Every file is optional.
func Load() (*Config, error) {
	cfg := &Config{
		AssignmentsDir: ".",
	}

	home, err := os.UserHomeDir()
	if err == nil {
		cfg.ProjectsDir = filepath.Join(home, "dockeredServices")
		cfg.HistoryDB = filepath.Join(home, ".portward", "history.db")

		globalConfigPath := filepath.Join(home, ".portward", "config")
		if _, err := os.Stat(globalConfigPath); err == nil {
			if err := loadConfigFile(globalConfigPath, cfg); err != nil {
				return nil, fmt.Errorf("failed to load global config: %w", err)
			}
		}
	}

	if _, err := os.Stat(".portward.config"); err == nil {
		if err := loadConfigFile(".portward.config", cfg); err != nil {
			return nil, fmt.Errorf("failed to load .portward.config: %w", err)
		}
	}

	if _, err := os.Stat(".portward.config.local"); err == nil {
		if err := loadConfigFile(".portward.config.local", cfg); err != nil {
			return nil, fmt.Errorf("failed to load .portward.config.local: %w", err)
		}
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadConfigFile parses a bash-style config file
func loadConfigFile(filename string, cfg *Config) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	// Regex to match KEY="value" or KEY=value
	re := regexp.MustCompile(`^([A-Z_]+)=(.*)$`)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		matches := re.FindStringSubmatch(line)
		if matches == nil {
			continue
		}

		key := matches[1]
		value := strings.Trim(matches[2], `"'`)

		switch key {
		case "PROJECTS_DIR":
			cfg.ProjectsDir = value
		case "ASSIGNMENTS_DIR":
			cfg.AssignmentsDir = value
		case "HISTORY_DB":
			cfg.HistoryDB = value
		}
	}

	return scanner.Err()
}

// expandPaths expands a leading ~ in every configured path.
func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.ProjectsDir, &c.AssignmentsDir, &c.HistoryDB} {
		if !strings.HasPrefix(*p, "~") {
			continue
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to expand ~ in config path: %w", err)
		}
		*p = strings.Replace(*p, "~", home, 1)
	}
	return nil
}

// Validate checks that all required fields are set
func (c *Config) Validate() error {
	required := map[string]string{
		"PROJECTS_DIR":    c.ProjectsDir,
		"ASSIGNMENTS_DIR": c.AssignmentsDir,
		"HISTORY_DB":      c.HistoryDB,
	}

	var missing []string
	for field, value := range required {
		if value == "" {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration fields: %s", strings.Join(missing, ", "))
	}

	return nil
}
