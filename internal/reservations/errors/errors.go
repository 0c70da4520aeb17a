package errors

import "errors"

var (
	ErrNotFound = errors.New("document not found")

	ErrInvalidID = errors.New("invalid ID format")

	// ErrSlotTaken is returned when a slot claim collides with one already
	// held by another reservation.
	ErrSlotTaken = errors.New("slot already claimed by another reservation")
)
