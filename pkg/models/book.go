package models

import "time"

// Book is a catalog entry referencing an Author.
type Book struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	Title         string    `bson:"title" json:"title"`
	AuthorID      string    `bson:"authorId" json:"authorId"` // Author ID
	Summary       string    `bson:"summary,omitempty" json:"summary,omitempty"`
	CoverURL      string    `bson:"coverUrl,omitempty" json:"coverUrl,omitempty"`
	PublishedYear int       `bson:"publishedYear,omitempty" json:"publishedYear,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}
