package main

import (
	"context"
	"log"
	"net/http"
	"time"

	_ "paintpro/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"paintpro/internal/auth"
	"paintpro/internal/cache"
	"paintpro/internal/config"
	"paintpro/internal/db"
	"paintpro/internal/gateway"
	"paintpro/internal/gateway/document"
	pggateway "paintpro/internal/gateway/postgres"
	"paintpro/internal/handler"
	"paintpro/internal/router"
	"paintpro/internal/service"
	"paintpro/internal/storage"
)

// startupTimeout bounds the initial remote warm-up. A slow or dead backend
// must not keep the server from coming up; the services fall back to the
// cache on their own.
const startupTimeout = 5 * time.Second

// @title PaintPro API
// @version 1.0
// @description Painting business management API: PIN profiles, job ledger, calendar projection and exports, with a local-cache fallback over a swappable remote backend.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()

	gw, err := openGateway(cfg)
	if err != nil {
		log.Fatalf("gateway init: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	blobs, err := storage.NewFS(cfg.StorageDir, cfg.StorageBaseURL)
	if err != nil {
		log.Fatalf("storage init: %v", err)
	}
	if err := storage.EnsureBucket(context.Background(), blobs, storage.JobFilesBucket, storage.JobFilesBucketOptions); err != nil {
		log.Fatalf("storage bucket: %v", err)
	}

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	sessionStore := auth.NewSessionStore(cacheClient)

	// Initialize services
	profileService := service.NewProfileService(gw, cacheClient, sessionStore)
	jobService := service.NewJobService(gw, cacheClient, blobs)

	warmUp(profileService)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(profileService, jwtService)
	profileHandler := handler.NewProfileHandler(profileService)
	jobHandler := handler.NewJobHandler(jobService)
	calendarHandler := handler.NewCalendarHandler(jobService, gw)
	reportHandler := handler.NewReportHandler(jobService, profileService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		profileHandler,
		jobHandler,
		calendarHandler,
		reportHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

// openGateway builds the configured remote backend. The rest of the program
// only ever sees the gateway interface.
func openGateway(cfg *config.Config) (gateway.Gateway, error) {
	switch cfg.GatewayBackend {
	case config.BackendDocument:
		return document.Open(cfg.DocumentDBPath)
	default:
		gormDB, err := db.NewPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		gw := pggateway.New(gormDB)
		if err := gw.Migrate(); err != nil {
			return nil, err
		}
		return gw, nil
	}
}

// warmUp primes the roster and restores a mirrored session. The timeout only
// stops the wait, not the work: LoadProfiles keeps running and the first
// request benefits from whatever it managed to load.
func warmUp(profiles service.ProfileService) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, source, err := profiles.LoadProfiles(context.Background()); err != nil {
			log.Printf("warm-up: profile load failed: %v", err)
		} else {
			log.Printf("warm-up: profiles loaded from %s", source)
		}
		if session, err := profiles.RestoreSession(context.Background()); err == nil && session != nil {
			log.Printf("warm-up: restored session for profile %d", session.ProfileID)
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.Printf("warm-up: still loading after %s, serving with cache fallback", startupTimeout)
	}
}
