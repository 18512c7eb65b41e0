// cmd/api/main.go
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"budget-api/internal/auth"
	"budget-api/internal/config"
	"budget-api/internal/handler"
	"budget-api/internal/middleware"
	"budget-api/internal/seed"
	"budget-api/internal/storage/postgres"
	"budget-api/internal/summary"
	"budget-api/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.MustLoad()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DBConn)
	if err != nil {
		slog.Error("failed to configure database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// The database may still be starting; ping with backoff before serving.
	backoff := retry.WithMaxRetries(5, retry.NewExponential(time.Second))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			slog.Warn("database not ready, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to PostgreSQL")

	store := postgres.NewStorage(pool)
	userService := users.NewService(store)
	tokenService := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiresIn)
	engine := summary.NewEngine(store, store)

	if cfg.DemoSeed {
		if err := seed.Run(ctx, userService, store); err != nil {
			slog.Error("demo seed failed", "error", err)
			os.Exit(1)
		}
	}

	authHandler := handler.NewAuthHandler(userService, tokenService)
	categoryHandler := handler.NewCategoryHandler(store)
	transactionHandler := handler.NewTransactionHandler(store)
	budgetHandler := handler.NewBudgetHandler(store, engine)
	authMiddleware := middleware.NewAuthMiddleware(tokenService, userService)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	if cfg.DemoSeed {
		api.GET("/auth/demo-token", authHandler.DemoToken)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		categories := protected.Group("/categories")
		categories.POST("", categoryHandler.Create)
		categories.GET("", categoryHandler.List)
		categories.GET("/exists", categoryHandler.Exists)
		categories.GET("/:id", categoryHandler.GetByID)
		categories.PUT("/:id", categoryHandler.Update)
		categories.DELETE("/:id", categoryHandler.Delete)

		transactions := protected.Group("/transactions")
		transactions.POST("", transactionHandler.Create)
		transactions.GET("", transactionHandler.List)
		transactions.GET("/filter", transactionHandler.Filter)
		transactions.PUT("/:id", transactionHandler.Update)
		transactions.DELETE("/:id", transactionHandler.Delete)

		budgets := protected.Group("/budgets")
		budgets.POST("", budgetHandler.Create)
		budgets.GET("", budgetHandler.List)
		budgets.GET("/months", budgetHandler.Months)
		budgets.GET("/exists", budgetHandler.Exists)
		budgets.GET("/summaries", budgetHandler.MonthlySummaries)
		budgets.GET("/:id", budgetHandler.GetByID)
		budgets.GET("/:id/summary", budgetHandler.Summary)
		budgets.PUT("/:id", budgetHandler.Update)
		budgets.DELETE("/:id", budgetHandler.Delete)
	}

	slog.Info("server starting", "port", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}
