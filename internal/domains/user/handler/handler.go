package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"

	"bookreview-backend/internal/domains/user/model"
	"bookreview-backend/internal/domains/user/service"
	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/internal/shared/response"
	"bookreview-backend/pkg/jwt"
)

// UserHandler exposes the auth endpoints.
type UserHandler struct {
	service service.UserService
	tokens  jwt.Config
}

func NewUserHandler(service service.UserService, tokens jwt.Config) *UserHandler {
	return &UserHandler{service: service, tokens: tokens}
}

// Signup handles POST /auth/signup.
func (h *UserHandler) Signup(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserAlreadyExists):
			response.BadRequest(c, "An account with this email already exists")
		case isValidationError(err):
			response.BadRequest(c, err.Error())
		default:
			response.InternalServerError(c, "Failed to create account")
		}
		return
	}

	response.Success(c, http.StatusCreated, user)
}

// Login handles POST /auth/login. Tokens travel in HTTP-only cookies.
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			response.NotFound(c, "No account for this email, please register")
		case errors.Is(err, model.ErrInvalidCredentials):
			response.Unauthorized(c, "Invalid email or password")
		case isValidationError(err):
			response.BadRequest(c, err.Error())
		default:
			response.InternalServerError(c, "Failed to log in")
		}
		return
	}

	middleware.SetSessionCookies(c, result.AccessToken, result.RefreshToken, h.tokens)
	response.Success(c, http.StatusOK, result.User)
}

// Logout handles GET /auth/logout.
func (h *UserHandler) Logout(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.service.Logout(c.Request.Context(), userID); err != nil {
		response.InternalServerError(c, "Failed to log out")
		return
	}

	middleware.ClearSessionCookies(c)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// Me handles GET /auth/me.
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			response.Unauthorized(c, "Account no longer exists")
			return
		}
		response.InternalServerError(c, "Failed to load account")
		return
	}
	response.Success(c, http.StatusOK, user)
}

func isValidationError(err error) bool {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return true
	}
	var verr validation.Error
	return errors.As(err, &verr)
}
