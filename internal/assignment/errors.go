package assignment

import "fmt"

// NotFoundError is returned when no encrypted assignment file can be
// discovered in the search directory.
type NotFoundError struct {
	Dir string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no encrypted port assignment file found in %s (expected a file like %s)",
		e.Dir, ExampleFileName)
}

// AuthorizationError is returned when a login identity has no assignment.
// Login identities are case-sensitive on purpose: two identities differing
// only in case are different principals. When a case-insensitive match
// exists, Suggestion names the likely intended identity.
type AuthorizationError struct {
	LoginID    string
	Suggestion string
}

func (e *AuthorizationError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("login ID %q not found. Did you mean %q? Note: login IDs are case-sensitive",
			e.LoginID, e.Suggestion)
	}
	return fmt.Sprintf("login ID %q not authorized", e.LoginID)
}
