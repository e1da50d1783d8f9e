package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte(`
# portward settings
PROJECTS_DIR="/srv/projects"
ASSIGNMENTS_DIR=/etc/portward
HISTORY_DB='/var/lib/portward/history.db'

this line is ignored
lowercase_key=also ignored
`), 0644))

	cfg := &Config{}
	require.NoError(t, loadConfigFile(path, cfg))

	assert.Equal(t, "/srv/projects", cfg.ProjectsDir)
	assert.Equal(t, "/etc/portward", cfg.AssignmentsDir)
	assert.Equal(t, "/var/lib/portward/history.db", cfg.HistoryDB)
}

func TestLoadConfigFileOverrides(t *testing.T) {
	dir := t.TempDir()

	base := filepath.Join(dir, "base")
	require.NoError(t, os.WriteFile(base, []byte("PROJECTS_DIR=/one\nASSIGNMENTS_DIR=/shared\n"), 0644))

	local := filepath.Join(dir, "local")
	require.NoError(t, os.WriteFile(local, []byte("PROJECTS_DIR=/two\n"), 0644))

	cfg := &Config{}
	require.NoError(t, loadConfigFile(base, cfg))
	require.NoError(t, loadConfigFile(local, cfg))

	// Later files win, untouched keys survive.
	assert.Equal(t, "/two", cfg.ProjectsDir)
	assert.Equal(t, "/shared", cfg.AssignmentsDir)
}

func TestExpandPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := &Config{
		ProjectsDir:    "~/dockeredServices",
		AssignmentsDir: "/absolute/stays",
		HistoryDB:      "~/.portward/history.db",
	}
	require.NoError(t, cfg.expandPaths())

	assert.Equal(t, filepath.Join(home, "dockeredServices"), cfg.ProjectsDir)
	assert.Equal(t, "/absolute/stays", cfg.AssignmentsDir)
	assert.Equal(t, filepath.Join(home, ".portward/history.db"), cfg.HistoryDB)
}

func TestValidate(t *testing.T) {
	cfg := &Config{ProjectsDir: "/p", AssignmentsDir: ".", HistoryDB: "/h"}
	assert.NoError(t, cfg.Validate())

	missing := &Config{ProjectsDir: "/p"}
	err := missing.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HISTORY_DB")
}
