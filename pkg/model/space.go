package model

import "time"

type Space struct {
	ID          string    `json:"id" bson:"_id,omitempty" toml:"-"`
	Name        string    `json:"name" bson:"name" toml:"name"`
	Location    string    `json:"location" bson:"location" toml:"location"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" toml:"description"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" toml:"-"`
}
