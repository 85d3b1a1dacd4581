package pages

import (
	"lexforge/models"

	"github.com/a-h/templ"
)

// Dashboard renders the signed-in landing area. It is only reachable behind
// the auth guard, so a nil user is a programming error.
func Dashboard(user *models.User) templ.Component {
	if user == nil {
		panic("pages: Dashboard requires an authenticated user")
	}
	return dashboardPage(user)
}

func welcomeText(user *models.User) string {
	if name := user.GreetingName(); name != "" {
		return "Welcome, " + name + "!"
	}
	return "Welcome!"
}
