package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/book/model"
)

// BookRepository persists catalog entries and their embedded review state.
type BookRepository interface {
	// Create inserts the book and registers its id on the owner's books_added
	// list in the same transaction.
	Create(ctx context.Context, book *model.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	ExistsByTuple(ctx context.Context, title, author string, publishedDate time.Time, genre string) (bool, error)
	List(ctx context.Context, query model.ListBooksQuery) (*model.BookListResult, error)
	ListByAuthor(ctx context.Context, author string) ([]model.Book, error)
	ListByGenre(ctx context.Context, genre string) ([]model.Book, error)
	// UpdateReviewAggregate replaces the embedded snapshot list and the
	// average rating in one statement.
	UpdateReviewAggregate(ctx context.Context, bookID uuid.UUID, snapshots []model.ReviewSnapshot, average float64) error
}
