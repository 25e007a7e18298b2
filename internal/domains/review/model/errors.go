package model

import "errors"

var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrReviewNotFound covers both a missing review and a review owned by
	// someone else. Ownership misses are indistinguishable from absence so a
	// caller cannot probe for other users' review ids.
	ErrReviewNotFound  = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("user has already reviewed this book")
)
