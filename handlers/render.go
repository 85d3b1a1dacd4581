package handlers

import (
	"net/http"

	"lexforge/config"
	"lexforge/middleware"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// render writes a templ component as the HTML response
func render(c echo.Context, status int, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return component.Render(c.Request().Context(), c.Response().Writer)
}

// redirect sends a normal redirect, or HX-Redirect for htmx requests
func redirect(c echo.Context, path string) error {
	if middleware.IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", path)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, path)
}

func getConfig(c echo.Context) *config.Config {
	if cfg, ok := c.Get("config").(*config.Config); ok {
		return cfg
	}
	return &config.Config{}
}
