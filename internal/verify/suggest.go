package verify

import "github.com/campusops/portward/internal/assignment"

// SuggestFreePort proposes the lowest-numbered port of the record that no
// mapping in scope already uses, or nil when the assignment is exhausted.
// The caller decides the scope: a single project's ports for per-project
// verification, every scanned project's for the cross-project pass.
//
// Suggestions reason only about ports declared in files at the instant of
// the scan. Two concurrent invocations can be handed the same free port;
// there is no reservation mechanism.
func SuggestFreePort(rec *assignment.Assignment, used map[int]bool) *int {
	for _, port := range rec.AllPorts() {
		if !used[port] {
			p := port
			return &p
		}
	}
	return nil
}
