// Package compose recovers host/container port declarations from
// docker-compose.yml documents. It deliberately parses only the subset of
// the compose grammar needed for port verification: the top-level services
// mapping and each service's ports sequence.
package compose

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ComposeFileName is the only document name the scanner recognizes.
const ComposeFileName = "docker-compose.yml"

// PortMapping is one declared port of one service.
type PortMapping struct {
	Service       string `json:"service"`
	HostPort      int    `json:"host_port"`
	ContainerPort int    `json:"container_port"`
	Protocol      string `json:"protocol"`
	SourceFile    string `json:"source_file"`
}

// ProjectSnapshot is everything one project directory declared at scan time.
type ProjectSnapshot struct {
	Project  string        `json:"project"`
	Dir      string        `json:"dir"`
	Mappings []PortMapping `json:"mappings"`
	// Warnings records individual entries that were skipped because they
	// did not match any known shape. They never fail a scan.
	Warnings []string `json:"warnings,omitempty"`
}

// HostPorts returns the declared host ports in declaration order.
func (s *ProjectSnapshot) HostPorts() []int {
	ports := make([]int, len(s.Mappings))
	for i, m := range s.Mappings {
		ports[i] = m.HostPort
	}
	return ports
}

// TotalHostPorts returns the number of declared host ports.
func (s *ProjectSnapshot) TotalHostPorts() int { return len(s.Mappings) }

// ParseError reports a malformed compose document. It is scoped to one file;
// scanning many projects must survive one bad document.
type ParseError struct {
	Path   string
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: invalid compose file: %v", e.Path, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: invalid compose file: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// serviceDef is the subset of a service definition the scanner reads.
type serviceDef struct {
	Ports []yaml.Node `yaml:"ports"`
}

// Scan reads dir/docker-compose.yml and extracts its port declarations.
// A missing document yields an empty snapshot, not an error: "no project
// here" is a normal outcome when sweeping candidate directories.
func Scan(dir string) (*ProjectSnapshot, error) {
	snap := &ProjectSnapshot{
		Project: filepath.Base(filepath.Clean(dir)),
		Dir:     dir,
	}

	path := filepath.Join(dir, ComposeFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return snap, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		// Empty document: nothing declared.
		return snap, nil
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, &ParseError{
			Path: path, Line: top.Line, Column: top.Column,
			Err: errors.New("top-level document is not a mapping"),
		}
	}

	var doc struct {
		Services yaml.Node `yaml:"services"`
	}
	if err := top.Decode(&doc); err != nil {
		return nil, &ParseError{Path: path, Line: top.Line, Column: top.Column, Err: err}
	}

	services := doc.Services
	if services.IsZero() || services.Tag == "!!null" {
		return snap, nil
	}
	if services.Kind != yaml.MappingNode {
		return nil, &ParseError{
			Path: path, Line: services.Line, Column: services.Column,
			Err: errors.New("services is not a mapping"),
		}
	}

	// Walk the mapping's key/value node pairs instead of decoding into a
	// map: declaration order decides which service keeps a duplicated
	// host port, so it must survive the scan.
	for i := 0; i+1 < len(services.Content); i += 2 {
		name := services.Content[i].Value
		node := services.Content[i+1]

		// A malformed individual service never aborts the scan.
		var svc serviceDef
		if node.Kind != yaml.MappingNode {
			snap.Warnings = append(snap.Warnings,
				fmt.Sprintf("%s: service %q is not a mapping, skipped", path, name))
			continue
		}
		if err := node.Decode(&svc); err != nil {
			snap.Warnings = append(snap.Warnings,
				fmt.Sprintf("%s: service %q: %v, skipped", path, name, err))
			continue
		}

		for i := range svc.Ports {
			m, err := normalizePortEntry(&svc.Ports[i])
			if err != nil {
				snap.Warnings = append(snap.Warnings,
					fmt.Sprintf("%s: service %q: %v", path, name, err))
				continue
			}
			m.Service = name
			m.SourceFile = path
			snap.Mappings = append(snap.Mappings, m)
		}
	}

	slog.Debug("scanned project",
		"project", snap.Project, "mappings", len(snap.Mappings), "warnings", len(snap.Warnings))
	return snap, nil
}

// ScanAll scans every immediate subdirectory of baseDir that contains a
// compose document. Directories without one are skipped silently; parse
// failures are collected so one broken project never hides its siblings.
func ScanAll(baseDir string) ([]*ProjectSnapshot, []error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, []error{fmt.Errorf("failed to scan %s: %w", baseDir, err)}
	}

	var snaps []*ProjectSnapshot
	var errs []error
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(baseDir, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, ComposeFileName)); err != nil {
			continue
		}
		snap, err := Scan(dir)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		snaps = append(snaps, snap)
	}

	return snaps, errs
}
