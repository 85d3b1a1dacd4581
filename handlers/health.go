package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"lexforge/db"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports liveness and database reachability
func HealthHandler(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		log.Printf("[WARNING] Health check failed: %v", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": "unreachable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
