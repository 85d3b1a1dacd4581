package services

import (
	"bytes"
	"fmt"
	"html/template"
	"lexforge/config"
	"log"
	"strings"
	texttemplate "text/template"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// WelcomeEmailData contains data for the welcome email templates
type WelcomeEmailData struct {
	UserName     string
	DashboardURL string
}

var welcomeHTML = template.Must(template.New("welcome_html").Parse(`<div style="font-family: Georgia, serif; border: 2px solid #000; padding: 24px; max-width: 560px;">
  <p style="font-family: monospace; background: #000; color: #fff; display: inline-block; padding: 2px 8px;">WELCOME</p>
  <h1>/// Welcome to LexForge{{if .UserName}}, {{.UserName}}{{end}}!</h1>
  <p>Your account is ready. Head to your dashboard to create your first legal document.</p>
  <p><a href="{{.DashboardURL}}" style="border: 2px solid #000; padding: 10px 20px; color: #000; text-decoration: none;">Open Dashboard</a></p>
</div>`))

var welcomeText = texttemplate.Must(texttemplate.New("welcome_text").Parse(`Welcome to LexForge{{if .UserName}}, {{.UserName}}{{end}}!

Your account is ready. Open your dashboard to create your first legal document:
{{.DashboardURL}}
`))

// BuildWelcomeEmail creates a welcome email for new users
func BuildWelcomeEmail(userEmail, userName, appURL string) (*Email, error) {
	data := WelcomeEmailData{
		UserName:     userName,
		DashboardURL: strings.TrimRight(appURL, "/") + "/dashboard",
	}

	var htmlBody, textBody bytes.Buffer
	if err := welcomeHTML.Execute(&htmlBody, data); err != nil {
		return nil, fmt.Errorf("failed to render welcome email: %w", err)
	}
	if err := welcomeText.Execute(&textBody, data); err != nil {
		return nil, fmt.Errorf("failed to render welcome email: %w", err)
	}

	return &Email{
		To:       []string{userEmail},
		Subject:  "Welcome to LexForge",
		HTMLBody: htmlBody.String(),
		TextBody: textBody.String(),
	}, nil
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	// Validate configuration
	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	// Validate we have at least one body
	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// logEmailToConsole logs email details to console in development mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (Development Mode - Not Actually Sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("%s\n", separator)
}

// SendEmailAsync sends an email in a goroutine so handlers do not block on the provider
func SendEmailAsync(cfg *config.Config, email *Email) {
	// Copy to avoid races with the caller
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func() {
		if err := SendEmail(cfg, emailCopy); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}()
}
