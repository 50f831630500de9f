package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"farmstay-go/internal/middleware"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Auth   *AuthHandler
	Review *ReviewHandler
	Stamp  *StampHandler
}

// RegisterRoutes mounts the API on router
func RegisterRoutes(router *gin.Engine, h Handlers, jwtSecret, adminKey string) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	// Public routes
	router.POST("/api/login", h.Auth.Login)
	router.POST("/api/register", h.Auth.Register)
	router.GET("/api/reviews/:id", h.Review.GetReview)

	stamps := router.Group("/api/stamps")
	stamps.Use(middleware.OptionalJWTMiddleware(jwtSecret))
	{
		stamps.GET("/prefectures", h.Stamp.GetPrefectures)
		stamps.GET("/users/:user_id/collection", h.Stamp.GetUserCollection)
		stamps.GET("/users/:user_id/collection/:prefecture_code", h.Stamp.GetPrefectureDetail)
		stamps.GET("/ranking", h.Stamp.GetRanking)
	}

	// Protected routes
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware(jwtSecret))
	{
		protected.GET("/user/profile", h.Auth.GetUserProfile)
		protected.GET("/stamps/me/collection", h.Stamp.GetMyCollection)

		protected.POST("/reviews", h.Review.CreateReview)
		protected.GET("/me/reviews", h.Review.GetMyReviews)
		protected.DELETE("/reviews/:id", h.Review.DeleteReview)
	}

	admin := router.Group("/api/admin")
	admin.Use(middleware.AdminKeyMiddleware(adminKey))
	{
		admin.POST("/stamps/backfill", h.Stamp.RunBackfill)
	}
}
