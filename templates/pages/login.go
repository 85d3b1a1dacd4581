package pages

import (
	"lexforge/models"
	"lexforge/services"
)

const (
	ModeSignIn = "signin"
	ModeSignUp = "signup"
)

// Login error codes carried in the ?error= query parameter
const (
	ErrorInvalidCredentials = "invalid_credentials"
	ErrorAccountLocked      = "account_locked"
	ErrorAccountInactive    = "account_inactive"
	ErrorMissingFields      = "missing_fields"
	ErrorInvalidEmail       = "invalid_email"
	ErrorWeakPassword       = "weak_password"
	ErrorEmailTaken         = "email_taken"
	ErrorGoogleFailed       = "google_failed"
	ErrorGoogleUnavailable  = "google_unavailable"
	ErrorServer             = "server_error"
)

var loginErrorMessages = map[string]string{
	ErrorInvalidCredentials: "Invalid email or password",
	ErrorAccountLocked:      "Account is temporarily locked due to too many failed login attempts. Please try again later.",
	ErrorAccountInactive:    "Your account has been deactivated. Please contact support.",
	ErrorMissingFields:      "Email and password are required",
	ErrorInvalidEmail:       "Please enter a valid email address",
	ErrorWeakPassword:       "Password must be at least 12 characters and include upper and lower case letters, a number and a symbol",
	ErrorEmailTaken:         "An account with this email already exists",
	ErrorGoogleFailed:       "Google sign-in failed. Please try again.",
	ErrorGoogleUnavailable:  "Google sign-in is not available right now",
	ErrorServer:             "Something went wrong. Please try again.",
}

// LoginErrorMessage maps an error code to the message shown on the form.
// Unknown codes are ignored.
func LoginErrorMessage(code string) string {
	return loginErrorMessages[code]
}

// LoginPageData is everything the login page needs to render
type LoginPageData struct {
	State           models.SessionState
	SignIn          services.SignInConfig
	GoogleAvailable bool
	CSRFToken       string
	Mode            string
	Error           string
	Email           string
}

func (d LoginPageData) showGoogle() bool {
	return d.GoogleAvailable && d.SignIn.Enabled(services.MethodGoogle)
}

func (d LoginPageData) showPassword() bool {
	return d.SignIn.Enabled(services.MethodEmailPassword)
}
