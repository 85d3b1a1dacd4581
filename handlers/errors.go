package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"lexforge/middleware"
	"lexforge/templates/pages"

	"github.com/labstack/echo/v4"
)

// HTTPErrorHandler renders errors as pages for browsers and JSON for /api/
// routes. A pending session gets the neutral placeholder instead of an error.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = fmt.Sprint(he.Message)
	}
	if code >= http.StatusInternalServerError && !errors.Is(err, middleware.ErrSessionPending) {
		log.Printf("[ERROR] %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	var renderErr error
	switch {
	case c.Request().Method == http.MethodHead:
		renderErr = c.NoContent(code)
	case strings.HasPrefix(c.Request().URL.Path, "/api/"):
		renderErr = c.JSON(code, map[string]string{"error": message})
	case errors.Is(err, middleware.ErrSessionPending):
		renderErr = render(c, code, pages.SessionPending())
	case code == http.StatusNotFound:
		renderErr = render(c, code, pages.NotFound(middleware.GetSession(c)))
	case code >= http.StatusInternalServerError:
		renderErr = render(c, code, pages.ErrorPage(middleware.GetSession(c), code, "Something went wrong", "Please try again in a moment."))
	default:
		renderErr = render(c, code, pages.ErrorPage(middleware.GetSession(c), code, http.StatusText(code), message))
	}
	if renderErr != nil {
		log.Printf("[ERROR] Failed to render error page: %v", renderErr)
	}
}
