package domain

import "time"

// AdvisorAssignment ties a client to the collection advisor responsible for
// it. Assignments drive both the advisor portfolio views and the
// authorization check for state changes and payments.
type AdvisorAssignment struct {
	ID        int64
	AdvisorID int64
	ClientID  int64

	AssignedAt time.Time
}
