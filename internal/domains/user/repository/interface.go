package repository

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/user/model"
)

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// UpdateRefreshToken stores the current refresh token, or clears it when
	// token is nil.
	UpdateRefreshToken(ctx context.Context, userID uuid.UUID, token *string) error
}
