package models

// Session is a saved shell session: the receipt being split and the people
// splitting it. The shell owns this mutable state and persists it between
// runs; the settlement engine only ever sees immutable snapshots of it.
type Session struct {
	// ID is the unique identifier for the session (UUID format).
	ID string

	// Name is a human-readable label, auto-generated from the people
	// when not provided.
	Name string

	// Receipt is the current receipt, nil until one has been scanned.
	Receipt *Receipt

	// People is the roster, in the order people were added. Roster order
	// is the settlement tie-break, so it is preserved verbatim.
	People []string

	// CreatedAt is the Unix timestamp when the session was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last save.
	UpdatedAt int64
}

// SessionSummary is the listing view of a session.
type SessionSummary struct {
	ID          string
	Name        string
	PeopleCount int
	ItemsCount  int
	CreatedAt   int64
	UpdatedAt   int64
}
