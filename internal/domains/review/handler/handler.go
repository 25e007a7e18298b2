package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	bookmodel "bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/domains/review/service"
	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/internal/shared/response"
)

// ReviewHandler exposes the review endpoints. All of them require a session.
type ReviewHandler struct {
	service service.ReviewService
}

func NewReviewHandler(service service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// AddReview handles POST /books/:bookId/reviews.
func (h *ReviewHandler) AddReview(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	bookID, err := uuid.Parse(c.Param("bookId"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	var req model.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	review, err := h.service.AddReview(c.Request.Context(), userID, bookID, &req)
	if err != nil {
		h.writeError(c, err, "Failed to add review")
		return
	}
	response.Success(c, http.StatusCreated, review)
}

// UpdateReview handles PUT /reviews/:reviewId.
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	reviewID, err := uuid.Parse(c.Param("reviewId"))
	if err != nil {
		response.BadRequest(c, "Invalid review id")
		return
	}

	var req model.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	review, err := h.service.UpdateReview(c.Request.Context(), userID, reviewID, &req)
	if err != nil {
		h.writeError(c, err, "Failed to update review")
		return
	}
	response.Success(c, http.StatusOK, review)
}

// DeleteReview handles DELETE /reviews/:reviewId.
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	reviewID, err := uuid.Parse(c.Param("reviewId"))
	if err != nil {
		response.BadRequest(c, "Invalid review id")
		return
	}

	if err := h.service.DeleteReview(c.Request.Context(), userID, reviewID); err != nil {
		h.writeError(c, err, "Failed to delete review")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Review deleted"})
}

func (h *ReviewHandler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, model.ErrInvalidRating):
		response.BadRequest(c, "Rating must be between 1 and 5")
	case errors.Is(err, model.ErrAlreadyReviewed):
		response.BadRequest(c, "You have already reviewed this book")
	case errors.Is(err, model.ErrReviewNotFound):
		response.NotFound(c, "Review not found")
	case errors.Is(err, bookmodel.ErrBookNotFound):
		response.NotFound(c, "Book not found")
	case isValidationError(err):
		response.BadRequest(c, err.Error())
	default:
		response.InternalServerError(c, fallback)
	}
}

func isValidationError(err error) bool {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return true
	}
	var verr validation.Error
	return errors.As(err, &verr)
}
