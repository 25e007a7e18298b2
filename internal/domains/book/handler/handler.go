package handler

import (
	"errors"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/domains/book/service"
	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/internal/shared/response"
)

// BookHandler exposes the catalog endpoints.
type BookHandler struct {
	service service.BookService
}

func NewBookHandler(service service.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// CreateBook handles POST /books.
func (h *BookHandler) CreateBook(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrBookAlreadyExists):
			response.BadRequest(c, "This book is already in the catalog")
		case isValidationError(err):
			response.BadRequest(c, err.Error())
		default:
			response.InternalServerError(c, "Failed to create book")
		}
		return
	}

	response.Success(c, http.StatusCreated, book)
}

// ListBooks handles GET /books with author/genre filters and pagination.
func (h *BookHandler) ListBooks(c *gin.Context) {
	query := model.ListBooksQuery{
		Author: c.Query("author"),
		Genre:  c.Query("genre"),
	}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	query.Normalize()

	result, err := h.service.ListBooks(c.Request.Context(), query)
	if err != nil {
		response.InternalServerError(c, "Failed to list books")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result.Books, &response.Meta{
		Page:  query.Page,
		Limit: query.Limit,
		Total: int(result.Total),
	})
}

// GetBook handles GET /books/:bookId.
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("bookId"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	book, err := h.service.GetBookByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			response.NotFound(c, "Book not found")
			return
		}
		response.InternalServerError(c, "Failed to load book")
		return
	}
	response.Success(c, http.StatusOK, book)
}

// ListByAuthor handles GET /books/by-author/:author.
func (h *BookHandler) ListByAuthor(c *gin.Context) {
	books, err := h.service.ListByAuthor(c.Request.Context(), c.Param("author"))
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			response.NotFound(c, "No books found for this author")
			return
		}
		response.InternalServerError(c, "Failed to list books")
		return
	}
	response.Success(c, http.StatusOK, books)
}

// ListByGenre handles GET /books/by-genre/:genre.
func (h *BookHandler) ListByGenre(c *gin.Context) {
	books, err := h.service.ListByGenre(c.Request.Context(), c.Param("genre"))
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			response.NotFound(c, "No books found for this genre")
			return
		}
		response.InternalServerError(c, "Failed to list books")
		return
	}
	response.Success(c, http.StatusOK, books)
}

func isValidationError(err error) bool {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return true
	}
	var verr validation.Error
	return errors.As(err, &verr)
}
