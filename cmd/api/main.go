package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"farmstay-go/internal/auth"
	"farmstay-go/internal/cache"
	"farmstay-go/internal/database"
	"farmstay-go/internal/handler"
	"farmstay-go/internal/region"
	"farmstay-go/internal/review"
	"farmstay-go/internal/stamp"
	"farmstay-go/pkg/config"
	"farmstay-go/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	appLog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	// Connect to database
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		appLog.Fatal("Failed to connect to database", "driver", cfg.DatabaseDriver, "error", err)
	}
	defer db.Close()

	catalog := region.NewCatalog(db)
	if cfg.SeedRegions {
		n, err := catalog.Seed(context.Background())
		if err != nil {
			appLog.Fatal("Failed to seed region catalog", "error", err)
		}
		appLog.Info("Seeded region catalog", "regions", n)
	}

	// Ranking cache is optional
	var rankingCache stamp.RankingCache
	if cfg.RedisURL != "" {
		rc, err := cache.NewRankingCache(context.Background(), cfg.RedisURL, cfg.RankingCacheTTL, appLog)
		if err != nil {
			appLog.Warn("Ranking cache unavailable, serving uncached", "error", err)
		} else {
			defer rc.Close()
			rankingCache = rc
		}
	}

	// Initialize services
	store := stamp.NewStore(db)
	syncer := stamp.NewSynchronizer(store, catalog, rankingCache, appLog.With("service", "Synchronizer"))
	backfiller := stamp.NewBackfiller(store, syncer, appLog.With("service", "Backfill"), stamp.BackfillOptions{
		Workers:       cfg.BackfillWorkers,
		ProgressEvery: cfg.BackfillProgressEvery,
	})
	authService := auth.NewAuthService(db, cfg.JWTSecret)
	reviewService := review.NewReviewService(db, syncer, appLog)

	// Initialize handlers
	handlers := handler.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Review: handler.NewReviewHandler(reviewService, appLog),
		Stamp: handler.NewStampHandler(
			catalog,
			stamp.NewCollectionBuilder(store, catalog, cfg.TotalRegions),
			stamp.NewRanker(store, rankingCache, cfg.TotalRegions, appLog),
			backfiller,
			appLog,
			cfg.RankingDefaultLimit,
			cfg.RankingMaxLimit,
		),
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Set up Gin router
	router := gin.Default()

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-Admin-Key"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}
	router.Use(cors.New(corsConfig))

	handler.RegisterRoutes(router, handlers, cfg.JWTSecret, cfg.AdminAPIKey)

	appLog.Info("Starting server", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		appLog.Fatal("Failed to start server", "error", err)
	}
}
