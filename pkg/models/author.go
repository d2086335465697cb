package models

import "time"

// Author is a book author record, distinct from a User.
type Author struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Bio       string    `bson:"bio,omitempty" json:"bio,omitempty"`
	PhotoURL  string    `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
