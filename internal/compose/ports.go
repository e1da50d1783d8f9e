package compose

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// The textual short forms a ports entry may take. The optional leading
// address and trailing protocol are both tolerated and discarded beyond
// recording the protocol.
var (
	shortForm = regexp.MustCompile(`^(\d+):(\d+)(?:/(tcp|udp))?$`)
	addrForm  = regexp.MustCompile(`^(\d+\.\d+\.\d+\.\d+|\[[0-9a-fA-F:]+\]):(\d+):(\d+)(?:/(tcp|udp))?$`)
)

// longForm is the compose long syntax for a ports entry.
type longForm struct {
	Published yaml.Node `yaml:"published"`
	Target    int       `yaml:"target"`
	Protocol  string    `yaml:"protocol"`
}

// normalizePortEntry reduces the several shapes a ports entry takes in the
// wild to one canonical PortMapping, so nothing downstream ever re-parses.
// Entries that match no known shape produce an error the caller records as
// a warning.
func normalizePortEntry(node *yaml.Node) (PortMapping, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return normalizeScalarEntry(strings.TrimSpace(node.Value))
	case yaml.MappingNode:
		return normalizeLongEntry(node)
	default:
		return PortMapping{}, fmt.Errorf("unrecognized port entry at line %d", node.Line)
	}
}

func normalizeScalarEntry(raw string) (PortMapping, error) {
	// Single value: host and container port are the same.
	if port, err := strconv.Atoi(raw); err == nil {
		return PortMapping{HostPort: port, ContainerPort: port, Protocol: "tcp"}, nil
	}

	if m := shortForm.FindStringSubmatch(raw); m != nil {
		host, _ := strconv.Atoi(m[1])
		container, _ := strconv.Atoi(m[2])
		return PortMapping{HostPort: host, ContainerPort: container, Protocol: protoOrTCP(m[3])}, nil
	}

	if m := addrForm.FindStringSubmatch(raw); m != nil {
		host, _ := strconv.Atoi(m[2])
		container, _ := strconv.Atoi(m[3])
		return PortMapping{HostPort: host, ContainerPort: container, Protocol: protoOrTCP(m[4])}, nil
	}

	return PortMapping{}, fmt.Errorf("unrecognized port entry %q", raw)
}

func normalizeLongEntry(node *yaml.Node) (PortMapping, error) {
	var lf longForm
	if err := node.Decode(&lf); err != nil {
		return PortMapping{}, fmt.Errorf("unrecognized port entry at line %d: %v", node.Line, err)
	}
	if lf.Published.IsZero() || lf.Target == 0 {
		return PortMapping{}, fmt.Errorf("port entry at line %d is missing published or target", node.Line)
	}

	// published is an int or a quoted string in real files.
	published, err := strconv.Atoi(strings.TrimSpace(lf.Published.Value))
	if err != nil {
		return PortMapping{}, fmt.Errorf("port entry at line %d has non-numeric published port %q", node.Line, lf.Published.Value)
	}

	return PortMapping{HostPort: published, ContainerPort: lf.Target, Protocol: protoOrTCP(lf.Protocol)}, nil
}

func protoOrTCP(proto string) string {
	if proto == "" {
		return "tcp"
	}
	return proto
}
