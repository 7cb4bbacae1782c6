package services

// Mode selects between the normal and degraded execution paths.
// It is decided once at process start, when the database connection is
// attempted, and injected into every service. Services must never switch
// modes mid-request.
type Mode int

const (
	// ModeNormal is the live-store path: identities resolve against the
	// user table and analysis records are durably stored.
	ModeNormal Mode = iota
	// ModeDegraded is the offline-store path: identities are synthesized
	// from token claims and records are returned without being stored.
	ModeDegraded
)

func (m Mode) String() string {
	if m == ModeDegraded {
		return "degraded"
	}
	return "normal"
}
