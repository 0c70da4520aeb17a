package model

import "time"

type EventType string

const (
	EventReservationReserved  EventType = "reservation.reserved"
	EventReservationCancelled EventType = "reservation.cancelled"
)

// ReservationEvent is emitted after a reservation change has committed.
type ReservationEvent struct {
	ID            string    `json:"id"`
	Type          EventType `json:"type"`
	ReservationID string    `json:"reservation_id"`
	MemberID      string    `json:"member_id"`
	SpaceID       string    `json:"space_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	OccurredAt    time.Time `json:"occurred_at"`
}
