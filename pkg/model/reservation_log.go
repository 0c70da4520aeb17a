package model

import "time"

type LogState string

const (
	LogStateReserve LogState = "RESERVE"
	LogStateCancel  LogState = "CANCEL"
)

// ReservationLog is an append-only audit entry. Member and space fields are
// snapshots taken at write time, not references.
type ReservationLog struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	ReservationID  string    `json:"reservation_id" bson:"reservation_id"`
	MemberNickname string    `json:"member_nickname" bson:"member_nickname"`
	SpaceName      string    `json:"space_name" bson:"space_name"`
	SpaceLocation  string    `json:"space_location" bson:"space_location"`
	ReservedTime   string    `json:"reserved_time" bson:"reserved_time"`
	State          LogState  `json:"state" bson:"state"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}
