package components

import (
	"context"
	"strings"
	"testing"

	"lexforge/models"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

func TestButtonClasses(t *testing.T) {
	t.Run("Brutalist large", func(t *testing.T) {
		classes := ButtonClasses(ButtonBrutalist, SizeLarge, "")
		assert.Contains(t, classes, "border-black")
		assert.Contains(t, classes, "h-12 px-8")
		assert.True(t, strings.HasPrefix(classes, "relative inline-flex"))
	})

	t.Run("Unknown values fall back to defaults", func(t *testing.T) {
		assert.Equal(t,
			ButtonClasses(ButtonDefault, SizeDefault, ""),
			ButtonClasses("neon", "huge", ""))
		assert.Equal(t,
			ButtonClasses(ButtonDefault, SizeDefault, ""),
			ButtonClasses("", "", ""))
	})

	t.Run("Extra classes appended", func(t *testing.T) {
		classes := ButtonClasses(ButtonOutline, SizeSmall, "  w-full   mt-4 ")
		assert.True(t, strings.HasSuffix(classes, "w-full mt-4"))
		assert.NotContains(t, classes, "  ")
	})
}

func TestButton(t *testing.T) {
	t.Run("Link", func(t *testing.T) {
		html := render(t, Button(ButtonProps{Variant: ButtonOutline, Href: "/login"}, "Log In"))
		assert.True(t, strings.HasPrefix(html, `<a href="/login"`))
		assert.Contains(t, html, ">Log In</a>")
	})

	t.Run("Submit button", func(t *testing.T) {
		html := render(t, Button(ButtonProps{Type: "submit", Attrs: templ.Attributes{"id": "go"}}, "Go"))
		assert.Contains(t, html, `<button type="submit"`)
		assert.Contains(t, html, `id="go"`)
	})

	t.Run("Script URLs are rejected", func(t *testing.T) {
		for _, href := range []string{"javascript:alert(1)", "JavaScript:alert(1)", "data:text/html,<b>x</b>"} {
			html := render(t, Button(ButtonProps{Href: href}, "Go"))
			assert.Contains(t, html, `href="about:invalid#TemplFailedSanitizationURL"`, href)
			assert.NotContains(t, html, "alert(1)", href)
		}
	})

	t.Run("Relative and fragment links pass through", func(t *testing.T) {
		assert.Contains(t, render(t, Button(ButtonProps{Href: "#document-types"}, "View")), `href="#document-types"`)
		assert.Contains(t, render(t, Button(ButtonProps{Href: SignupPath}, "Sign Up")), `href="/login?mode=signup"`)
	})

	t.Run("Default type and escaped label", func(t *testing.T) {
		html := render(t, Button(ButtonProps{}, "<b>x</b>"))
		assert.Contains(t, html, `type="button"`)
		assert.NotContains(t, html, "<b>")
	})
}

func TestStartPath(t *testing.T) {
	user := &models.User{Email: "jane@example.com"}

	assert.Equal(t, DashboardPath, StartPath(models.Authenticated(user)))
	assert.Equal(t, LoginPath, StartPath(models.Anonymous))
	assert.Equal(t, LoginPath, StartPath(models.Pending))
}

func TestHeader(t *testing.T) {
	t.Run("Anonymous", func(t *testing.T) {
		html := render(t, Header(models.Anonymous))
		assert.Contains(t, html, `data-auth="log-in"`)
		assert.Contains(t, html, `data-auth="sign-up"`)
		assert.Contains(t, html, `href="/login?mode=signup"`)
		assert.NotContains(t, html, `data-auth="sign-out"`)
		assert.NotContains(t, html, `data-nav="dashboard"`)
	})

	t.Run("Authenticated", func(t *testing.T) {
		user := &models.User{DisplayName: "Jane", Email: "jane@example.com"}
		html := render(t, Header(models.Authenticated(user)))
		assert.Contains(t, html, "Hello, Jane")
		assert.Equal(t, 1, strings.Count(html, `data-auth="sign-out"`))
		assert.Contains(t, html, `href="/logout"`)
		assert.Contains(t, html, `data-nav="dashboard"`)
		assert.NotContains(t, html, `data-auth="log-in"`)
	})

	t.Run("Greeting falls back to email local part", func(t *testing.T) {
		html := render(t, Header(models.Authenticated(&models.User{Email: "jane@x.com"})))
		assert.Contains(t, html, "Hello, jane<")
	})

	t.Run("Greeting omitted without name or email", func(t *testing.T) {
		html := render(t, Header(models.Authenticated(&models.User{})))
		assert.NotContains(t, html, "data-greeting")
		assert.Contains(t, html, `data-auth="sign-out"`)
	})

	t.Run("Greeting is escaped", func(t *testing.T) {
		html := render(t, Header(models.Authenticated(&models.User{DisplayName: "<script>x</script>"})))
		assert.NotContains(t, html, "<script>x")
	})

	t.Run("Auth controls carry their marker on the link", func(t *testing.T) {
		html := render(t, Header(models.Anonymous))
		assert.Regexp(t, `<a href="/login" class="[^"]*" data-auth="log-in">Log In</a>`, html)
	})

	t.Run("Loading renders no auth controls", func(t *testing.T) {
		html := render(t, Header(models.Pending))
		assert.NotContains(t, html, "data-auth")
		assert.NotContains(t, html, "data-greeting")
		assert.Contains(t, html, "LexForge")
	})
}

func TestCards(t *testing.T) {
	t.Run("Feature card", func(t *testing.T) {
		html := render(t, FeatureCard("Legal Compliance", "Stay current", IconCheckCircle(), "extra"))
		assert.Contains(t, html, "Legal Compliance")
		assert.Contains(t, html, "<svg")
		assert.Contains(t, html, "extra")
	})

	t.Run("Document card with link", func(t *testing.T) {
		html := render(t, DocumentTypeCard("Privacy Policy", "GDPR ready", "/login", nil, ""))
		assert.True(t, strings.HasPrefix(html, "<a "))
		assert.Contains(t, html, `href="/login"`)
		assert.NotContains(t, html, "<svg")
	})

	t.Run("Document card without link", func(t *testing.T) {
		html := render(t, DocumentTypeCard("Privacy Policy", "GDPR ready", "", IconFile(), ""))
		assert.True(t, strings.HasPrefix(html, "<div "))
		assert.Contains(t, html, "<svg")
	})
}

func TestLayout(t *testing.T) {
	ctx := templ.WithNonce(context.Background(), "abc123")
	var sb strings.Builder
	ctx = templ.WithChildren(ctx, Tag("DASHBOARD"))
	require.NoError(t, Layout("Dashboard <1>").Render(ctx, &sb))
	html := sb.String()

	assert.Contains(t, html, "<title>Dashboard &lt;1&gt;</title>")
	assert.Contains(t, html, `nonce="abc123"`)
	assert.Contains(t, html, "DASHBOARD")
	assert.True(t, strings.HasSuffix(html, "</body></html>"))
}
