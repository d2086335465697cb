package models

import "time"

// Post is a blog entry written by a registered user.
type Post struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Body      string    `bson:"body" json:"body"`
	AuthorID  string    `bson:"authorId" json:"authorId"` // User ID
	ImageURL  string    `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
