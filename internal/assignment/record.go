// Package assignment holds the decrypted port assignment records and the
// read-once registry that answers authorization and range-lookup queries.
package assignment

import (
	"fmt"
	"time"
)

// Assignment is one login identity's port allocation: a first contiguous
// segment and an optional second one. Records are immutable after load.
type Assignment struct {
	LoginID       string    `json:"login_id"`
	Segment1Start int       `json:"segment1_start"`
	Segment1End   int       `json:"segment1_end"`
	Segment2Start *int      `json:"segment2_start,omitempty"`
	Segment2End   *int      `json:"segment2_end,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// HasTwoSegments reports whether a second segment is assigned.
func (a *Assignment) HasTwoSegments() bool {
	return a.Segment2Start != nil && a.Segment2End != nil
}

// Contains reports whether port falls inside either segment.
func (a *Assignment) Contains(port int) bool {
	if port >= a.Segment1Start && port <= a.Segment1End {
		return true
	}
	if a.HasTwoSegments() && port >= *a.Segment2Start && port <= *a.Segment2End {
		return true
	}
	return false
}

// AllPorts materializes every owned port as a sorted slice. Segments are at
// most a few hundred ports wide, so eager enumeration is fine here.
func (a *Assignment) AllPorts() []int {
	ports := make([]int, 0, a.TotalPorts())
	for p := a.Segment1Start; p <= a.Segment1End; p++ {
		ports = append(ports, p)
	}
	if a.HasTwoSegments() {
		for p := *a.Segment2Start; p <= *a.Segment2End; p++ {
			ports = append(ports, p)
		}
	}
	return ports
}

// TotalPorts returns the number of ports across both segments.
func (a *Assignment) TotalPorts() int {
	n := a.Segment1End - a.Segment1Start + 1
	if a.HasTwoSegments() {
		n += *a.Segment2End - *a.Segment2Start + 1
	}
	return n
}

// IsContinuous reports whether the owned ports form one unbroken range.
func (a *Assignment) IsContinuous() bool {
	if !a.HasTwoSegments() {
		return true
	}
	return *a.Segment2Start == a.Segment1End+1
}

// FormatRanges renders the segments for user-facing messages,
// e.g. "4000-4100, 8000-8100".
func (a *Assignment) FormatRanges() string {
	s := fmt.Sprintf("%d-%d", a.Segment1Start, a.Segment1End)
	if a.HasTwoSegments() {
		s += fmt.Sprintf(", %d-%d", *a.Segment2Start, *a.Segment2End)
	}
	return s
}

func (a *Assignment) String() string {
	return fmt.Sprintf("%s: %s (%d ports)", a.LoginID, a.FormatRanges(), a.TotalPorts())
}

// validate checks the structural invariants a record must satisfy. Segment
// disjointness is validated here even though the issuing tool is supposed to
// guarantee it: a hand-edited store should fail loudly, not double-count.
func (a *Assignment) validate() error {
	if a.LoginID == "" {
		return fmt.Errorf("assignment is missing login_id")
	}
	if a.Segment1Start > a.Segment1End {
		return fmt.Errorf("%s: segment1 %d-%d is inverted", a.LoginID, a.Segment1Start, a.Segment1End)
	}
	if (a.Segment2Start == nil) != (a.Segment2End == nil) {
		return fmt.Errorf("%s: segment2 has only one bound", a.LoginID)
	}
	if a.HasTwoSegments() {
		if *a.Segment2Start > *a.Segment2End {
			return fmt.Errorf("%s: segment2 %d-%d is inverted", a.LoginID, *a.Segment2Start, *a.Segment2End)
		}
		if *a.Segment2Start <= a.Segment1End && a.Segment1Start <= *a.Segment2End {
			return fmt.Errorf("%s: segments %s overlap", a.LoginID, a.FormatRanges())
		}
	}
	return nil
}
