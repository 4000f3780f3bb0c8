package session

import "github.com/spec-kit/internship-service/internal/domain"

// Snapshot is the consolidated, continuously refreshed view of identity,
// profile and loading state. It is a value: consumers receive copies and never
// mutate provider state through it.
type Snapshot struct {
	Identity *domain.Identity
	Profile  *domain.Profile
	// Loading is true until the initial identity resolution and, for
	// authenticated sessions, the first profile emission have both completed.
	Loading bool
	// Err is set when the live profile subscription degrades. A degraded
	// subscription never masquerades as "not authenticated".
	Err error
}

// Authenticated reports whether an identity is present.
func (s Snapshot) Authenticated() bool {
	return s.Identity != nil
}
