package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/domains/book/repository"
	"bookreview-backend/pkg/cache"
	"bookreview-backend/pkg/logger"
)

const bookCacheTTL = 5 * time.Minute

// BookCacheKey is the cache key for a single book's detail view. Review
// mutations delete this key so a cached book never shows a stale rating.
func BookCacheKey(id uuid.UUID) string {
	return "book:" + id.String()
}

type bookService struct {
	repo  repository.BookRepository
	cache cache.Cache
}

// NewBookService creates the catalog service. cache may be nil.
func NewBookService(repo repository.BookRepository, c cache.Cache) BookService {
	return &bookService{repo: repo, cache: c}
}

func (s *bookService) CreateBook(ctx context.Context, userID uuid.UUID, req *model.CreateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	publishedDate, err := req.ParsedPublishedDate()
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByTuple(ctx, req.Title, req.Author, publishedDate, req.Genre)
	if err != nil {
		return nil, fmt.Errorf("failed to check duplicate book: %w", err)
	}
	if exists {
		return nil, model.ErrBookAlreadyExists
	}

	book := &model.Book{
		ID:            uuid.New(),
		Title:         req.Title,
		Author:        req.Author,
		Description:   req.Description,
		Genre:         req.Genre,
		PublishedDate: publishedDate,
		AddedBy:       userID,
		Reviews:       []model.ReviewSnapshot{},
	}
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	logger.Info().Str("book_id", book.ID.String()).Str("user_id", userID.String()).Msg("book created")
	return book, nil
}

func (s *bookService) GetBookByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	if s.cache != nil {
		var cached model.Book
		hit, err := s.cache.Get(ctx, BookCacheKey(id), &cached)
		if err != nil {
			logger.Error().Err(err).Str("book_id", id.String()).Msg("book cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, BookCacheKey(id), book, bookCacheTTL); err != nil {
			logger.Error().Err(err).Str("book_id", id.String()).Msg("book cache write failed")
		}
	}
	return book, nil
}

func (s *bookService) ListBooks(ctx context.Context, query model.ListBooksQuery) (*model.BookListResult, error) {
	query.Normalize()
	return s.repo.List(ctx, query)
}

func (s *bookService) ListByAuthor(ctx context.Context, author string) ([]model.Book, error) {
	books, err := s.repo.ListByAuthor(ctx, author)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, model.ErrBookNotFound
	}
	return books, nil
}

func (s *bookService) ListByGenre(ctx context.Context, genre string) ([]model.Book, error) {
	books, err := s.repo.ListByGenre(ctx, genre)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, model.ErrBookNotFound
	}
	return books, nil
}
