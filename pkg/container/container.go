package container

import (
	"context"
	"fmt"

	"bookreview-backend/internal/config"
	bookhandler "bookreview-backend/internal/domains/book/handler"
	bookrepo "bookreview-backend/internal/domains/book/repository"
	bookservice "bookreview-backend/internal/domains/book/service"
	reviewhandler "bookreview-backend/internal/domains/review/handler"
	reviewrepo "bookreview-backend/internal/domains/review/repository"
	reviewservice "bookreview-backend/internal/domains/review/service"
	userhandler "bookreview-backend/internal/domains/user/handler"
	userrepo "bookreview-backend/internal/domains/user/repository"
	userservice "bookreview-backend/internal/domains/user/service"
	infracache "bookreview-backend/internal/infrastructure/cache"
	"bookreview-backend/internal/infrastructure/database"
	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/pkg/cache"
	"bookreview-backend/pkg/jwt"
	"bookreview-backend/pkg/logger"
)

// Container wires configuration, infrastructure, repositories, services and
// handlers together.
type Container struct {
	Config *config.Config
	DB     *database.PostgresDB
	Cache  cache.Cache

	TokenManager *jwt.Manager
	Session      *middleware.SessionMiddleware

	UserHandler   *userhandler.UserHandler
	BookHandler   *bookhandler.BookHandler
	ReviewHandler *reviewhandler.ReviewHandler
}

// New builds the full dependency graph. The Redis cache is optional; a failed
// cache connection degrades to uncached reads instead of refusing to start.
func New(ctx context.Context) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dbCfg, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}
	db := database.NewPostgresDB(dbCfg)
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var appCache cache.Cache
	redisCache := infracache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Ping(ctx); err != nil {
		logger.Error().Err(err).Msg("redis unavailable, caching disabled")
	} else {
		appCache = redisCache
	}

	jwtCfg := jwt.Config{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTokenExpiry,
		RefreshTTL:    cfg.JWT.RefreshTokenExpiry,
	}
	tokenManager := jwt.NewManager(jwtCfg)

	userRepository := userrepo.NewPostgresUserRepository(db.Pool)
	bookRepository := bookrepo.NewPostgresBookRepository(db.Pool)
	reviewRepository := reviewrepo.NewPostgresReviewRepository(db.Pool)

	userService := userservice.NewUserService(userRepository, tokenManager)
	bookService := bookservice.NewBookService(bookRepository, appCache)
	reviewService := reviewservice.NewReviewService(reviewRepository, bookRepository, appCache)

	return &Container{
		Config:        cfg,
		DB:            db,
		Cache:         appCache,
		TokenManager:  tokenManager,
		Session:       middleware.NewSessionMiddleware(tokenManager, userRepository, jwtCfg),
		UserHandler:   userhandler.NewUserHandler(userService, jwtCfg),
		BookHandler:   bookhandler.NewBookHandler(bookService),
		ReviewHandler: reviewhandler.NewReviewHandler(reviewService),
	}, nil
}

// Cleanup releases infrastructure connections.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}
	if rc, ok := c.Cache.(*infracache.RedisCache); ok && rc != nil {
		if err := rc.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close redis connection")
		}
	}
}
