package model

import (
	"time"

	"github.com/google/uuid"
)

// User is an account. BooksAdded and ReviewsAdded are back-references kept in
// step with the books and reviews tables by their repositories.
type User struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	Email        string      `json:"email" db:"email"`
	Password     string      `json:"-" db:"password"`
	RefreshToken *string     `json:"-" db:"refresh_token"`
	BooksAdded   []uuid.UUID `json:"booksAdded" db:"books_added"`
	ReviewsAdded []uuid.UUID `json:"reviewsAdded" db:"reviews_added"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time   `json:"updatedAt" db:"updated_at"`
}
