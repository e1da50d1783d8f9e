// Package verify classifies declared host ports against one login
// identity's assignment. Conflicts are ordinary result data, never errors:
// "this project has a port problem" is an expected, user-facing outcome.
package verify

import (
	"fmt"
	"sort"

	"github.com/campusops/portward/internal/assignment"
	"github.com/campusops/portward/internal/compose"
)

// ConflictKind classifies a detected violation.
type ConflictKind string

const (
	OutOfRange              ConflictKind = "out_of_range"
	DuplicateWithinProject  ConflictKind = "duplicate_within_project"
	DuplicateAcrossProjects ConflictKind = "duplicate_across_projects"
)

// Conflict is one detected violation of range ownership or uniqueness.
type Conflict struct {
	Service     string       `json:"service"`
	Port        int          `json:"port"`
	Kind        ConflictKind `json:"kind"`
	Description string       `json:"description"`
	Suggestion  *int         `json:"suggestion,omitempty"`
}

// CrossConflict attributes a cross-project duplicate to one project.
type CrossConflict struct {
	Project  string   `json:"project"`
	Conflict Conflict `json:"conflict"`
}

// Result is the outcome of verifying one project snapshot.
type Result struct {
	Project        string     `json:"project"`
	IsValid        bool       `json:"is_valid"`
	TotalPortsUsed int        `json:"total_ports_used"`
	Conflicts      []Conflict `json:"conflicts"`
	Warnings       []string   `json:"warnings,omitempty"`
}

// Ports that are conventionally owned by system services; declaring them is
// legal for a record that owns them but worth a warning either way.
var wellKnownPorts = map[int]string{
	22:    "ssh",
	80:    "http",
	443:   "https",
	3306:  "mysql",
	5432:  "postgresql",
	27017: "mongodb",
}

// VerifySingle checks one snapshot against one assignment: first the
// range-ownership pass, then the intra-project duplicate pass. Suggestions
// only avoid collisions within this project.
func VerifySingle(snap *compose.ProjectSnapshot, rec *assignment.Assignment) Result {
	res := Result{
		Project:        snap.Project,
		TotalPortsUsed: snap.TotalHostPorts(),
		Warnings:       append([]string(nil), snap.Warnings...),
	}

	used := portSet(snap)

	// Pass 1: range ownership.
	for _, m := range snap.Mappings {
		if rec.Contains(m.HostPort) {
			continue
		}
		c := Conflict{
			Service: m.Service,
			Port:    m.HostPort,
			Kind:    OutOfRange,
			Description: fmt.Sprintf("port %d used by service %q is not in the assigned range %s",
				m.HostPort, m.Service, rec.FormatRanges()),
		}
		c.Suggestion = SuggestFreePort(rec, used)
		res.Conflicts = append(res.Conflicts, c)
	}

	// Pass 2: intra-project duplicates. The first-declared service keeps
	// the port; every later claimant is flagged.
	seen := make(map[int]string)
	for _, m := range snap.Mappings {
		first, ok := seen[m.HostPort]
		if !ok {
			seen[m.HostPort] = m.Service
			continue
		}
		desc := fmt.Sprintf("port %d is declared by both %q and %q", m.HostPort, first, m.Service)
		if first == m.Service {
			// A service can collide with itself; the bind fails either way.
			desc = fmt.Sprintf("port %d is declared more than once by %q", m.HostPort, m.Service)
		}
		c := Conflict{
			Service:     m.Service,
			Port:        m.HostPort,
			Kind:        DuplicateWithinProject,
			Description: desc,
		}
		c.Suggestion = SuggestFreePort(rec, used)
		res.Conflicts = append(res.Conflicts, c)
	}

	res.Warnings = append(res.Warnings, advisoryWarnings(snap)...)
	res.IsValid = len(res.Conflicts) == 0
	return res
}

// VerifyAll verifies each snapshot independently, then runs the
// cross-project pass over all of them. The two passes stay separate on
// purpose: a project can be internally consistent yet still collide with a
// sibling, and the caller needs both facts to pick the right remediation.
func VerifyAll(snaps []*compose.ProjectSnapshot, rec *assignment.Assignment) ([]Result, []CrossConflict) {
	results := make([]Result, 0, len(snaps))
	for _, snap := range snaps {
		results = append(results, VerifySingle(snap, rec))
	}
	return results, detectCrossConflicts(snaps, rec)
}

type claim struct {
	project string
	service string
}

func detectCrossConflicts(snaps []*compose.ProjectSnapshot, rec *assignment.Assignment) []CrossConflict {
	ordered := make([]*compose.ProjectSnapshot, len(snaps))
	copy(ordered, snaps)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Project < ordered[j].Project })

	// Cross-project suggestions must dodge every declared port.
	used := portSet(ordered...)

	claims := make(map[int][]claim)
	var ports []int
	for _, snap := range ordered {
		for _, m := range snap.Mappings {
			if prev := claims[m.HostPort]; len(prev) > 0 && prev[len(prev)-1].project == snap.Project {
				// Same-project duplicates are VerifySingle's business.
				continue
			}
			if len(claims[m.HostPort]) == 0 {
				ports = append(ports, m.HostPort)
			}
			claims[m.HostPort] = append(claims[m.HostPort], claim{project: snap.Project, service: m.Service})
		}
	}
	sort.Ints(ports)

	var conflicts []CrossConflict
	for _, port := range ports {
		owners := claims[port]
		if len(owners) < 2 {
			continue
		}
		// The first project in lexicographic order keeps the port.
		for _, cl := range owners[1:] {
			c := Conflict{
				Service: cl.service,
				Port:    port,
				Kind:    DuplicateAcrossProjects,
				Description: fmt.Sprintf("port %d is already used by project %q (service %q)",
					port, owners[0].project, owners[0].service),
			}
			c.Suggestion = SuggestFreePort(rec, used)
			conflicts = append(conflicts, CrossConflict{Project: cl.project, Conflict: c})
		}
	}
	return conflicts
}

func advisoryWarnings(snap *compose.ProjectSnapshot) []string {
	var warnings []string
	for _, m := range snap.Mappings {
		if name, ok := wellKnownPorts[m.HostPort]; ok {
			warnings = append(warnings,
				fmt.Sprintf("service %q uses host port %d, conventionally reserved for %s", m.Service, m.HostPort, name))
		}
	}
	if n := snap.TotalHostPorts(); n > 10 {
		warnings = append(warnings, fmt.Sprintf("project declares %d host ports; consider consolidating services", n))
	}
	return warnings
}

func portSet(snaps ...*compose.ProjectSnapshot) map[int]bool {
	used := make(map[int]bool)
	for _, snap := range snaps {
		for _, m := range snap.Mappings {
			used[m.HostPort] = true
		}
	}
	return used
}
