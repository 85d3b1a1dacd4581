package handlers

import (
	"net/http"

	"lexforge/middleware"
	"lexforge/templates/pages"

	"github.com/labstack/echo/v4"
)

// LandingHandler renders the public landing page
func LandingHandler(c echo.Context) error {
	return render(c, http.StatusOK, pages.Landing(middleware.GetSession(c)))
}
