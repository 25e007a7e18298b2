package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	usermodel "bookreview-backend/internal/domains/user/model"
	userrepo "bookreview-backend/internal/domains/user/repository"
	"bookreview-backend/internal/shared/response"
	"bookreview-backend/pkg/jwt"
	"bookreview-backend/pkg/logger"
)

// Session cookie names. Both are httpOnly; clients never touch tokens in JS.
const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
)

const contextUserIDKey = "userID"

// SessionMiddleware authenticates requests from the token cookies and rotates
// the pair on every authenticated request.
type SessionMiddleware struct {
	tokens *jwt.Manager
	users  userrepo.UserRepository
	cfg    jwt.Config
}

func NewSessionMiddleware(tokens *jwt.Manager, users userrepo.UserRepository, cfg jwt.Config) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, users: users, cfg: cfg}
}

// Authenticate resolves the session per request:
//   - no cookies: 401.
//   - access cookie present and valid: proceed as that user.
//   - access missing or failing validation, refresh cookie present and valid:
//     proceed as the refresh token's subject. An expired access token with a
//     live refresh token is therefore not an error.
//   - otherwise 401.
//
// Every successful pass issues a fresh token pair, persists the new refresh
// token on the user and resets both cookies.
func (m *SessionMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		access, _ := c.Cookie(AccessCookie)
		refresh, _ := c.Cookie(RefreshCookie)

		if access == "" && refresh == "" {
			response.Unauthorized(c, "Not authenticated")
			c.Abort()
			return
		}

		if access != "" {
			claims, err := m.tokens.ValidateAccessToken(access)
			if err == nil {
				m.establish(c, claims.UserID)
				return
			}
			if refresh == "" {
				response.Unauthorized(c, "Session expired")
				c.Abort()
				return
			}
		}

		claims, err := m.tokens.ValidateRefreshToken(refresh)
		if err != nil {
			response.Unauthorized(c, "Session expired")
			c.Abort()
			return
		}
		m.establish(c, claims.UserID)
	}
}

// establish verifies the subject still exists, rotates the token pair and
// stores the user id in the request context.
func (m *SessionMiddleware) establish(c *gin.Context, subject string) {
	userID, err := uuid.Parse(subject)
	if err != nil {
		response.Unauthorized(c, "Session expired")
		c.Abort()
		return
	}

	user, err := m.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, usermodel.ErrUserNotFound) {
			response.Unauthorized(c, "Session expired")
		} else {
			logger.Error().Err(err).Msg("session user lookup failed")
			response.InternalServerError(c, "Failed to authenticate")
		}
		c.Abort()
		return
	}

	accessToken, err := m.tokens.GenerateAccessToken(subject)
	if err != nil {
		logger.Error().Err(err).Msg("access token rotation failed")
		response.InternalServerError(c, "Failed to authenticate")
		c.Abort()
		return
	}
	refreshToken, err := m.tokens.GenerateRefreshToken(subject)
	if err != nil {
		logger.Error().Err(err).Msg("refresh token rotation failed")
		response.InternalServerError(c, "Failed to authenticate")
		c.Abort()
		return
	}

	if err := m.users.UpdateRefreshToken(c.Request.Context(), user.ID, &refreshToken); err != nil {
		logger.Error().Err(err).Msg("refresh token persist failed")
		response.InternalServerError(c, "Failed to authenticate")
		c.Abort()
		return
	}

	SetSessionCookies(c, accessToken, refreshToken, m.cfg)
	c.Set(contextUserIDKey, user.ID)
	c.Next()
}

// SetSessionCookies writes both token cookies with lifetimes matching the
// token TTLs.
func SetSessionCookies(c *gin.Context, accessToken, refreshToken string, cfg jwt.Config) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, accessToken, int(cfg.AccessTTL.Seconds()), "/", "", false, true)
	c.SetCookie(RefreshCookie, refreshToken, int(cfg.RefreshTTL.Seconds()), "/", "", false, true)
}

// ClearSessionCookies expires both token cookies.
func ClearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, "", -1, "/", "", false, true)
	c.SetCookie(RefreshCookie, "", -1, "/", "", false, true)
}

// UserIDFromContext returns the authenticated user id set by Authenticate.
func UserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(contextUserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
