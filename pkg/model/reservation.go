package model

import "time"

type Reservation struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	MemberID    string    `json:"member_id" bson:"member_id"`
	SpaceID     string    `json:"space_id" bson:"space_id"`
	StartTime   time.Time `json:"start_time" bson:"start_time"`
	EndTime     time.Time `json:"end_time" bson:"end_time"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// CreateReservationRequest is the body of POST /api/v1/reservations. Times are
// local wall-clock strings in the form 2006-01-02T15:04.
type CreateReservationRequest struct {
	SpaceID     string `json:"space_id" validate:"required,mongodb"`
	MemberID    string `json:"member_id" validate:"required,mongodb"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
	Description string `json:"description" validate:"max=100"`
}

type CreateReservationResponse struct {
	ID string `json:"id"`
}
