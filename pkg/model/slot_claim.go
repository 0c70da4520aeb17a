package model

import "time"

// SlotClaim marks one fixed-size slot of a space as taken by a reservation.
// The _id is derived from the space and the slot start, so two reservations
// covering the same slot can never both be written.
type SlotClaim struct {
	ID            string    `bson:"_id" json:"id"`
	SpaceID       string    `bson:"space_id" json:"space_id"`
	ReservationID string    `bson:"reservation_id" json:"reservation_id"`
	SlotStart     time.Time `bson:"slot_start" json:"slot_start"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}
