// Package usage aggregates per-user port utilization across scanned
// projects for reporting and optimization hints.
package usage

import (
	"math"

	"github.com/campusops/portward/internal/assignment"
	"github.com/campusops/portward/internal/compose"
)

// Report summarizes how much of an assignment is in use.
type Report struct {
	TotalPorts int `json:"total_ports"`
	// UsedPorts counts distinct declared host ports that belong to the
	// assignment. Ports declared outside it are tallied separately and
	// never inflate the utilization figure.
	UsedPorts       int     `json:"used_ports"`
	OutOfRangePorts int     `json:"out_of_range_ports"`
	AvailablePorts  int     `json:"available_ports"`
	UsagePercentage float64 `json:"usage_percentage"`
	UnusedPorts     []int   `json:"unused_ports"`
}

// Analyze computes the utilization of rec across all given snapshots.
func Analyze(rec *assignment.Assignment, snaps []*compose.ProjectSnapshot) Report {
	inRange := make(map[int]bool)
	outOfRange := make(map[int]bool)
	for _, snap := range snaps {
		for _, m := range snap.Mappings {
			if rec.Contains(m.HostPort) {
				inRange[m.HostPort] = true
			} else {
				outOfRange[m.HostPort] = true
			}
		}
	}

	rep := Report{
		TotalPorts:      rec.TotalPorts(),
		UsedPorts:       len(inRange),
		OutOfRangePorts: len(outOfRange),
	}
	rep.AvailablePorts = rep.TotalPorts - rep.UsedPorts

	for _, port := range rec.AllPorts() {
		if !inRange[port] {
			rep.UnusedPorts = append(rep.UnusedPorts, port)
		}
	}

	if rep.TotalPorts > 0 {
		pct := float64(rep.UsedPorts) / float64(rep.TotalPorts) * 100
		rep.UsagePercentage = math.Round(pct*10) / 10
	}

	return rep
}
