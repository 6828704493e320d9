package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/betwise/betwise-backend/internal/db"
	"github.com/betwise/betwise-backend/internal/handlers"
	"github.com/betwise/betwise-backend/internal/logger"
	"github.com/betwise/betwise-backend/internal/middleware"
	"github.com/betwise/betwise-backend/internal/observability"
	"github.com/betwise/betwise-backend/internal/repos"
	"github.com/betwise/betwise-backend/internal/server"
	"github.com/betwise/betwise-backend/internal/services"
	"github.com/betwise/betwise-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	otelShutdown := observability.InitTracing(ctx, log, "betwise-backend")
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Warn("OTel shutdown failed", "error", err)
		}
	}()

	// Env
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	tickInterval := utils.GetEnvAsDuration("ODDS_TICK_SECONDS", 10*time.Second, log)
	mediaDir := utils.GetEnv("MEDIA_DIR", "./media", log)
	port := utils.GetEnv("PORT", "8080", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	teamRepo := repos.NewTeamRepo(thePG, log)
	matchRepo := repos.NewMatchRepo(thePG, log)
	matchOddsRepo := repos.NewMatchOddsRepo(thePG, log)
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	userFavoriteRepo := repos.NewUserFavoriteRepo(thePG, log)

	// Seed catalog
	seed := services.DefaultSeedCatalog()
	if seedFile := utils.GetEnv("SEED_FILE", "", log); seedFile != "" {
		loaded, sErr := services.LoadSeedCatalog(seedFile)
		if sErr != nil {
			log.Warn("Could not load seed file, using built-in catalog", "error", sErr)
		} else {
			seed = loaded
		}
	}

	// Services
	log.Info("Setting up services from main...")
	matchCache, err := services.NewMatchCache(log, tickInterval)
	if err != nil {
		log.Warn("Could not init match snapshot cache, serving from postgres only", "error", err)
		matchCache = nil
	}
	avatarService, err := services.NewAvatarService(log, mediaDir)
	if err != nil {
		log.Warn("Could not init AvatarService, registrations proceed without avatars", "error", err)
		avatarService = nil
	}
	oddsService := services.NewOddsService(thePG, log, teamRepo, matchRepo, matchOddsRepo, matchCache, seed)
	valueService := services.NewValueService(log)
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, avatarService, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(thePG, log, userRepo, matchRepo, userFavoriteRepo)

	if err := oddsService.SeedIfEmpty(ctx); err != nil {
		log.Fatal("Failed to seed match catalog", "error", err)
	}

	simulationService := services.NewOddsSimulationService(log, oddsService, matchOddsRepo, tickInterval)
	simulationService.StartWorker(ctx)

	// Handlers
	log.Info("Setting up handlers from main...")
	matchHandler := handlers.NewMatchHandler(oddsService)
	calculateHandler := handlers.NewCalculateHandler(valueService)
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	favoriteHandler := handlers.NewFavoriteHandler(userService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	staticMediaDir := ""
	if avatarService != nil {
		staticMediaDir = mediaDir
	}
	router := server.NewRouter(server.RouterConfig{
		MatchHandler:       matchHandler,
		CalculateHandler:   calculateHandler,
		AuthHandler:        authHandler,
		AuthMiddleware:     authMiddleware,
		UserHandler:        userHandler,
		FavoriteHandler:    favoriteHandler,
		MediaDir:           staticMediaDir,
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Error("Server failed", "error", err)
	}
}
