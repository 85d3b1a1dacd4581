package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lexforge/config"
	"lexforge/db"
	"lexforge/handlers"
	"lexforge/middleware"
	"lexforge/models"
	"lexforge/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.User{}, &models.Session{}, &models.AuditLog{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()

	// Optional Redis session cache
	var cache services.SessionCache
	if cfg.RedisURL != "" {
		redisCache, err := services.NewRedisSessionCache(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("[WARNING] Redis session cache disabled: %v", err)
		} else {
			defer redisCache.Close()
			cache = redisCache
			log.Println("[INFO] Redis session cache enabled")
		}
	}
	services.Sessions = services.NewSessionStore(db.DB, cache)

	// Google sign-in
	if cfg.GoogleEnabled() {
		provider, err := services.NewGoogleProvider(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL())
		if err != nil {
			log.Printf("[WARNING] Google sign-in disabled: %v", err)
		} else {
			handlers.GoogleSignIn = provider
			log.Println("[INFO] Google sign-in enabled")
		}
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         hstsMaxAge(cfg),
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))
	e.Use(middleware.CSPNonce())
	e.Use(middleware.CSRF(cfg.IsProduction()))
	e.Use(middleware.LoadSession(services.Sessions))
	e.Use(middleware.AuditContext())

	// Routes
	handlers.Register(e, handlers.Routes(), middleware.RequireAuth())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	// Background cleanup job (runs every hour)
	g.Go(func() error {
		runCleanup(gctx, time.Hour)
		return nil
	})

	g.Go(func() error {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Println("Shutting down server...")
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}

// runCleanup prunes security alerts and expired sessions until ctx is done.
func runCleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if alerts := services.Monitor.RecentAlerts(now.Add(-every)); len(alerts) > 0 {
				log.Printf("[SECURITY] %d alerts raised in the last %s, latest from IP: %s", len(alerts), every, alerts[0].IP)
			}
			services.Monitor.Prune(now)

			removed, err := services.Sessions.CleanupExpired(ctx)
			if err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("[INFO] Removed %d expired sessions", removed)
			}
		}
	}
}

func hstsMaxAge(cfg *config.Config) int {
	if cfg.IsProduction() {
		return 31536000
	}
	return 0
}
