package service

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/review/model"
)

// ReviewService handles review mutations and keeps the denormalized rating
// state on books in lockstep with the canonical review records.
type ReviewService interface {
	AddReview(ctx context.Context, userID, bookID uuid.UUID, req *model.ReviewRequest) (*model.Review, error)
	UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, req *model.ReviewRequest) (*model.Review, error)
	DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error
}
