package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/betwise/betwise-backend/internal/handlers"
	"github.com/betwise/betwise-backend/internal/middleware"
)

type RouterConfig struct {
	MatchHandler       *handlers.MatchHandler
	CalculateHandler   *handlers.CalculateHandler
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	UserHandler        *handlers.UserHandler
	FavoriteHandler    *handlers.FavoriteHandler
	MediaDir           string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware("betwise-backend"))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5500",
			"http://127.0.0.1:5500",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

// ===============
// || Public    ||
// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	if cfg.MediaDir != "" {
		router.Static("/media", cfg.MediaDir)
	}
	api := router.Group("/api")
	{
		api.GET("/matches", cfg.MatchHandler.GetMatches)
		api.POST("/calculate", cfg.CalculateHandler.Calculate)
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

// ===============
// || Protected ||
// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.PUT("/user", cfg.UserHandler.UpdateMe)
	// Favorites
	protected.GET("/favorites", cfg.FavoriteHandler.List)
	protected.POST("/favorites/:matchId", cfg.FavoriteHandler.Add)
	protected.DELETE("/favorites/:matchId", cfg.FavoriteHandler.Remove)

	return router
}
