package service

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/book/model"
)

// BookService handles catalog operations.
type BookService interface {
	CreateBook(ctx context.Context, userID uuid.UUID, req *model.CreateBookRequest) (*model.Book, error)
	GetBookByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	ListBooks(ctx context.Context, query model.ListBooksQuery) (*model.BookListResult, error)
	ListByAuthor(ctx context.Context, author string) ([]model.Book, error)
	ListByGenre(ctx context.Context, genre string) ([]model.Book, error)
}
