package repository

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/review/model"
)

// ReviewRepository persists canonical review records.
type ReviewRepository interface {
	// Create inserts the review and registers its id on the author's
	// reviews_added list in the same transaction. A (book_id, user_id)
	// unique violation maps to ErrAlreadyReviewed.
	Create(ctx context.Context, review *model.Review) error
	// GetOwned loads a review only when it belongs to userID. A miss and an
	// ownership mismatch both return ErrReviewNotFound.
	GetOwned(ctx context.Context, reviewID, userID uuid.UUID) (*model.Review, error)
	ExistsByBookAndUser(ctx context.Context, bookID, userID uuid.UUID) (bool, error)
	// ListByBook returns a book's reviews oldest first, the order the
	// embedded snapshot list preserves.
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.Review, error)
	Update(ctx context.Context, review *model.Review) error
	// DeleteOwned removes the review when it belongs to userID, returning the
	// deleted record, and drops its id from the author's reviews_added list.
	DeleteOwned(ctx context.Context, reviewID, userID uuid.UUID) (*model.Review, error)
}
