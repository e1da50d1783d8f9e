package usage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/portward/internal/assignment"
	"github.com/campusops/portward/internal/compose"
)

func intp(v int) *int { return &v }

func snapshot(project string, hostPorts ...int) *compose.ProjectSnapshot {
	snap := &compose.ProjectSnapshot{Project: project}
	for _, p := range hostPorts {
		snap.Mappings = append(snap.Mappings, compose.PortMapping{
			Service: "svc", HostPort: p, ContainerPort: p, Protocol: "tcp",
		})
	}
	return snap
}

func TestAnalyzeNoMappings(t *testing.T) {
	rec := &assignment.Assignment{LoginID: "Emma", Segment1Start: 4000, Segment1End: 4009}

	rep := Analyze(rec, nil)

	assert.Equal(t, 10, rep.TotalPorts)
	assert.Zero(t, rep.UsedPorts)
	assert.Zero(t, rep.OutOfRangePorts)
	assert.Equal(t, 10, rep.AvailablePorts)
	assert.Equal(t, 0.0, rep.UsagePercentage)
	assert.Len(t, rep.UnusedPorts, 10)
}

func TestAnalyzeOutOfRangeDoesNotInflateUsage(t *testing.T) {
	rec := &assignment.Assignment{LoginID: "Emma", Segment1Start: 4000, Segment1End: 4002}

	rep := Analyze(rec, []*compose.ProjectSnapshot{snapshot("blog", 4000, 9999)})

	assert.Equal(t, 3, rep.TotalPorts)
	assert.Equal(t, 1, rep.UsedPorts)
	assert.Equal(t, 1, rep.OutOfRangePorts)
	assert.Equal(t, 2, rep.AvailablePorts)
	assert.Equal(t, []int{4001, 4002}, rep.UnusedPorts)
	assert.InDelta(t, 33.3, rep.UsagePercentage, 0.001)
}

func TestAnalyzeDistinctAcrossProjects(t *testing.T) {
	rec := &assignment.Assignment{
		LoginID:       "Emma",
		Segment1Start: 4000, Segment1End: 4004,
		Segment2Start: intp(8000), Segment2End: intp(8004),
	}

	snaps := []*compose.ProjectSnapshot{
		snapshot("blog", 4000, 4001),
		snapshot("shop", 4000, 8000), // 4000 repeats across projects
	}

	rep := Analyze(rec, snaps)

	require.Equal(t, 10, rep.TotalPorts)
	assert.Equal(t, 3, rep.UsedPorts)
	assert.Equal(t, 7, rep.AvailablePorts)
	assert.Equal(t, 30.0, rep.UsagePercentage)
	assert.Equal(t, []int{4002, 4003, 4004, 8001, 8002, 8003, 8004}, rep.UnusedPorts)
}

func TestAnalyzePercentageRounding(t *testing.T) {
	rec := &assignment.Assignment{LoginID: "Emma", Segment1Start: 1, Segment1End: 7}

	rep := Analyze(rec, []*compose.ProjectSnapshot{snapshot("p", 1, 2)})

	// 2/7 = 28.57...%, displayed to one decimal.
	assert.Equal(t, 28.6, rep.UsagePercentage)
}
