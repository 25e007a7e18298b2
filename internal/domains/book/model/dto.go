package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const publishedDateLayout = "2006-01-02"

// CreateBookRequest is the payload for adding a catalog entry.
type CreateBookRequest struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Description   string `json:"description"`
	Genre         string `json:"genre"`
	PublishedDate string `json:"publishedDate"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Author, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Genre, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.PublishedDate, validation.Required, validation.Date(publishedDateLayout)),
	)
}

// ParsedPublishedDate converts the validated date string. Call Validate first.
func (r CreateBookRequest) ParsedPublishedDate() (time.Time, error) {
	return time.Parse(publishedDateLayout, r.PublishedDate)
}

// ListBooksQuery carries the catalog filters and pagination.
type ListBooksQuery struct {
	Author string
	Genre  string
	Page   int
	Limit  int
}

// Normalize clamps pagination to sane defaults.
func (q *ListBooksQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
}

func (q ListBooksQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// BookListResult pairs a page of books with the unfiltered-page total.
type BookListResult struct {
	Books []Book
	Total int64
}
