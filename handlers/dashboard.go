package handlers

import (
	"net/http"

	"lexforge/middleware"
	"lexforge/templates/pages"

	"github.com/labstack/echo/v4"
)

// DashboardHandler renders the dashboard for the signed-in user
func DashboardHandler(c echo.Context) error {
	return render(c, http.StatusOK, pages.Dashboard(middleware.MustGetUser(c)))
}
