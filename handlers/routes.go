package handlers

import (
	"net/http"

	"lexforge/middleware"

	"github.com/labstack/echo/v4"
)

// Route is one entry of the application's route table
type Route struct {
	Method     string
	Path       string
	Handler    echo.HandlerFunc
	Guarded    bool
	Middleware []echo.MiddlewareFunc
}

// Routes returns the route table. Guarded entries are only reachable with an
// authenticated session.
func Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/", Handler: LandingHandler},
		{Method: http.MethodGet, Path: "/login", Handler: LoginHandler},
		{Method: http.MethodPost, Path: "/login", Handler: LoginPostHandler,
			Middleware: []echo.MiddlewareFunc{middleware.LoginRateLimiter.Middleware()}},
		{Method: http.MethodPost, Path: "/signup", Handler: SignupPostHandler,
			Middleware: []echo.MiddlewareFunc{middleware.SignupRateLimiter.Middleware()}},
		{Method: http.MethodGet, Path: "/auth/google", Handler: GoogleLoginHandler},
		{Method: http.MethodGet, Path: "/auth/google/callback", Handler: GoogleCallbackHandler},
		{Method: http.MethodGet, Path: "/dashboard", Handler: DashboardHandler, Guarded: true},
		{Method: http.MethodGet, Path: "/logout", Handler: LogoutHandler, Guarded: true},
		{Method: http.MethodPost, Path: "/logout", Handler: LogoutPostHandler, Guarded: true},
		{Method: http.MethodGet, Path: "/api/me", Handler: GetCurrentUserHandler, Guarded: true},
		{Method: http.MethodGet, Path: "/healthz", Handler: HealthHandler},
	}
}

// Register binds the routes on e, wrapping guarded ones with guard.
// Unknown paths fall through to echo's not-found handling.
func Register(e *echo.Echo, routes []Route, guard echo.MiddlewareFunc) {
	for _, r := range routes {
		var mw []echo.MiddlewareFunc
		if r.Guarded {
			mw = append(mw, guard)
		}
		mw = append(mw, r.Middleware...)
		e.Add(r.Method, r.Path, r.Handler, mw...)
	}
}
