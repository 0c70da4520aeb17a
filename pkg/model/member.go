package model

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type Member struct {
	ID        string    `json:"id" bson:"_id,omitempty" toml:"-"`
	Nickname  string    `json:"nickname" bson:"nickname" toml:"nickname"`
	Authority string    `json:"authority" bson:"authority" toml:"authority"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" toml:"-"`
}
