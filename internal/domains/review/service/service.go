package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	bookmodel "bookreview-backend/internal/domains/book/model"
	bookrepo "bookreview-backend/internal/domains/book/repository"
	bookservice "bookreview-backend/internal/domains/book/service"
	"bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/domains/review/repository"
	"bookreview-backend/pkg/cache"
	"bookreview-backend/pkg/logger"
)

type reviewService struct {
	reviews repository.ReviewRepository
	books   bookrepo.BookRepository
	cache   cache.Cache
	locker  *bookLocker
}

// NewReviewService creates the review service. cache may be nil.
func NewReviewService(reviews repository.ReviewRepository, books bookrepo.BookRepository, c cache.Cache) ReviewService {
	return &reviewService{
		reviews: reviews,
		books:   books,
		cache:   c,
		locker:  newBookLocker(),
	}
}

func (s *reviewService) AddReview(ctx context.Context, userID, bookID uuid.UUID, req *model.ReviewRequest) (*model.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, model.ErrInvalidRating
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.locker.Lock(bookID)
	defer s.locker.Unlock(bookID)

	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return nil, err
	}

	// The unique (book_id, user_id) constraint backstops this check against
	// a concurrent insert on another instance.
	exists, err := s.reviews.ExistsByBookAndUser(ctx, bookID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if exists {
		return nil, model.ErrAlreadyReviewed
	}

	review := &model.Review{
		ID:      uuid.New(),
		BookID:  bookID,
		UserID:  userID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	if err := s.refreshAggregate(ctx, bookID); err != nil {
		return nil, err
	}

	logger.Info().
		Str("review_id", review.ID.String()).
		Str("book_id", bookID.String()).
		Str("user_id", userID.String()).
		Msg("review added")
	return review, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, req *model.ReviewRequest) (*model.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, model.ErrInvalidRating
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	review, err := s.reviews.GetOwned(ctx, reviewID, userID)
	if err != nil {
		return nil, err
	}

	s.locker.Lock(review.BookID)
	defer s.locker.Unlock(review.BookID)

	review.Rating = req.Rating
	review.Comment = req.Comment
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}

	if err := s.refreshAggregate(ctx, review.BookID); err != nil {
		return nil, err
	}

	logger.Info().
		Str("review_id", review.ID.String()).
		Str("book_id", review.BookID.String()).
		Msg("review updated")
	return review, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	review, err := s.reviews.GetOwned(ctx, reviewID, userID)
	if err != nil {
		return err
	}

	s.locker.Lock(review.BookID)
	defer s.locker.Unlock(review.BookID)

	deleted, err := s.reviews.DeleteOwned(ctx, reviewID, userID)
	if err != nil {
		return err
	}

	if err := s.refreshAggregate(ctx, deleted.BookID); err != nil {
		return err
	}

	logger.Info().
		Str("review_id", reviewID.String()).
		Str("book_id", deleted.BookID.String()).
		Msg("review deleted")
	return nil
}

// refreshAggregate rebuilds the book's embedded snapshot list and average
// rating from the canonical review rows, then drops the cached book. Deriving
// from the table instead of patching the embedded list keeps the two
// representations in lockstep even after a partial earlier failure.
func (s *reviewService) refreshAggregate(ctx context.Context, bookID uuid.UUID) error {
	reviews, err := s.reviews.ListByBook(ctx, bookID)
	if err != nil {
		return err
	}

	snapshots := make([]bookmodel.ReviewSnapshot, 0, len(reviews))
	sum := 0
	for _, rv := range reviews {
		snapshots = append(snapshots, bookmodel.ReviewSnapshot{
			UserID:  rv.UserID,
			Rating:  rv.Rating,
			Comment: rv.Comment,
		})
		sum += rv.Rating
	}

	average := 0.0
	if len(reviews) > 0 {
		average = float64(sum) / float64(len(reviews))
	}

	if err := s.books.UpdateReviewAggregate(ctx, bookID, snapshots, average); err != nil {
		if errors.Is(err, bookmodel.ErrBookNotFound) {
			return nil
		}
		return err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, bookservice.BookCacheKey(bookID)); err != nil {
			logger.Error().Err(err).Str("book_id", bookID.String()).Msg("book cache invalidation failed")
		}
	}
	return nil
}
