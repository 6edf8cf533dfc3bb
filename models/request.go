package models

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusReturned Status = "returned"
)

// transitions lists every legal status change. Anything else is rejected.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusReturned},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusReturned:
		return true
	}
	return false
}

type BorrowRequest struct {
	ID          int64     `json:"id"`
	EquipmentID int64     `json:"equipment_id"`
	UserID      int64     `json:"user_id"`
	Quantity    int       `json:"quantity"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	Purpose     string    `json:"purpose,omitempty"`
}

// Overlaps reports whether the request's date range intersects [start, end].
// Both ends are inclusive and compared as calendar dates.
func (r BorrowRequest) Overlaps(start, end time.Time) bool {
	return !CivilDate(r.StartDate).After(CivilDate(end)) &&
		!CivilDate(r.EndDate).Before(CivilDate(start))
}

// CivilDate drops the clock part of t, keeping its wall-clock calendar date.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
