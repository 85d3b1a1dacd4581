package components

import (
	"lexforge/models"

	"github.com/a-h/templ"
)

const (
	HomePath      = "/"
	DashboardPath = "/dashboard"
	LoginPath     = "/login"
	SignupPath    = "/login?mode=signup"
	LogoutPath    = "/logout"
)

// StartPath is where every "Get Started" style call to action leads:
// the dashboard for signed-in visitors, the login page otherwise.
func StartPath(state models.SessionState) string {
	if state.IsAuthenticated() {
		return DashboardPath
	}
	return LoginPath
}

// authControl marks a header button so the active auth controls can be told
// apart in the rendered page.
func authControl(name string) templ.Attributes {
	return templ.Attributes{"data-auth": name}
}
