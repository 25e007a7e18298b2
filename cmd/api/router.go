package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/internal/shared/response"
	"bookreview-backend/pkg/container"
	"bookreview-backend/pkg/metrics"
)

func setupRouter(c *container.Container) *gin.Engine {
	if c.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(c.Config.App.CORSOrigin),
		metrics.Middleware(),
	)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	auth := c.Session.Authenticate()

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthHandler(c))

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/signup", c.UserHandler.Signup)
			authGroup.POST("/login", c.UserHandler.Login)
			authGroup.GET("/logout", auth, c.UserHandler.Logout)
			authGroup.GET("/me", auth, c.UserHandler.Me)
		}

		books := v1.Group("/books")
		{
			books.POST("", auth, c.BookHandler.CreateBook)
			books.GET("", c.BookHandler.ListBooks)
			books.GET("/by-author/:author", c.BookHandler.ListByAuthor)
			books.GET("/by-genre/:genre", c.BookHandler.ListByGenre)
			books.GET("/:bookId", c.BookHandler.GetBook)
			books.POST("/:bookId/reviews", auth, c.ReviewHandler.AddReview)
		}

		reviews := v1.Group("/reviews")
		{
			reviews.PUT("/:reviewId", auth, c.ReviewHandler.UpdateReview)
			reviews.DELETE("/:reviewId", auth, c.ReviewHandler.DeleteReview)
		}
	}

	return router
}

func healthHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := gin.H{
			"service": c.Config.App.Name,
			"version": c.Config.App.Version,
			"status":  "ok",
		}

		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			ctx.JSON(http.StatusServiceUnavailable, response.Response{Success: false, Data: status})
			return
		}

		response.Success(ctx, http.StatusOK, status)
	}
}
