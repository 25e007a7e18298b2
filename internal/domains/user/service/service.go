package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bookreview-backend/internal/domains/user/model"
	"bookreview-backend/internal/domains/user/repository"
	"bookreview-backend/pkg/jwt"
	"bookreview-backend/pkg/logger"
)

const bcryptCost = 12

type userService struct {
	repo   repository.UserRepository
	tokens *jwt.Manager
}

// NewUserService creates the user service.
func NewUserService(repo repository.UserRepository, tokens *jwt.Manager) UserService {
	return &userService{repo: repo, tokens: tokens}
}

func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (*model.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}
	if exists {
		return nil, model.ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info().Str("user_id", user.ID.String()).Msg("user registered")
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Unknown email stays distinct from a bad password so the handler can
	// answer "please register".
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	// The comparison must complete before any token is issued.
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.repo.UpdateRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return &model.LoginResult{
		User:         user.ToResponse(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *userService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.UpdateRefreshToken(ctx, userID, nil); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil
		}
		return err
	}
	logger.Info().Str("user_id", userID.String()).Msg("user logged out")
	return nil
}

func (s *userService) GetByID(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}
