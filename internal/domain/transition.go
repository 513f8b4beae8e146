package domain

import "time"

// RequestOrigin captures where a state change came from, for the audit row.
type RequestOrigin struct {
	IPAddress string
	UserAgent string
}

// StateTransition is one append-only audit row. Rows are immutable once
// written and are never deleted.
type StateTransition struct {
	ID       int64
	ClientID int64

	PrevState DelinquencyState
	NewState  DelinquencyState

	UserID    int64
	ChangedAt time.Time

	Reason string
	Notes  *string

	Origin RequestOrigin
}
