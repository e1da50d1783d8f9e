// Package docker shells out to docker compose for container status. The
// verification engine never parses compose output for anything else; this
// exists only so the status command can say whether a project is up.
package docker

import (
	"fmt"
	"os/exec"
	"strings"
)

// IsRunning checks if containers are running for the given project.
func IsRunning(projectName string) (bool, error) {
	cmd := exec.Command("docker", "compose", "-p", projectName, "ps", "--quiet")
	output, err := cmd.Output()
	if err != nil {
		return false, err
	}

	// If there's output, containers are running
	return len(strings.TrimSpace(string(output))) > 0, nil
}

// Status returns docker compose's own status listing for the project.
func Status(projectName, dir string) (string, error) {
	cmd := exec.Command("docker", "compose", "-p", projectName, "ps")
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("failed to get status: %w", err)
	}

	return string(output), nil
}
