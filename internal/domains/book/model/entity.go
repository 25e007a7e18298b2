package model

import (
	"time"

	"github.com/google/uuid"
)

// ReviewSnapshot is the denormalized copy of a review embedded on the book.
// The reviews table stays canonical; this list exists so a book fetch carries
// its reviews and rating without a join.
type ReviewSnapshot struct {
	UserID  uuid.UUID `json:"userId" db:"user_id"`
	Rating  int       `json:"rating" db:"rating"`
	Comment string    `json:"comment" db:"comment"`
}

// Book is a catalog entry. AverageRatings is always the mean of the embedded
// snapshot ratings, 0 when there are none.
type Book struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	Title          string           `json:"title" db:"title"`
	Author         string           `json:"author" db:"author"`
	Description    string           `json:"description" db:"description"`
	Genre          string           `json:"genre" db:"genre"`
	PublishedDate  time.Time        `json:"publishedDate" db:"published_date"`
	AddedBy        uuid.UUID        `json:"addedBy" db:"added_by"`
	AverageRatings float64          `json:"averageRatings" db:"average_ratings"`
	Reviews        []ReviewSnapshot `json:"reviews" db:"reviews"`
	CreatedAt      time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time        `json:"updatedAt" db:"updated_at"`
}
