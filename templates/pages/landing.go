package pages

import (
	"lexforge/templates/components"

	"github.com/a-h/templ"
)

type landingFeature struct {
	Title       string
	Description string
	Icon        templ.Component
}

type landingDocument struct {
	Title       string
	Description string
	Class       string
}

const closingButtonClass = "bg-white text-black hover:shadow-[4px_4px_0px_0px_rgba(255,255,255,0.5)]"

var landingStats = [][2]string{
	{"100+", "Legal Templates"},
	{"5,000+", "Documents Generated"},
	{"99%", "Customer Satisfaction"},
}

var landingFeatures = []landingFeature{
	{"AI Document Generation", "Create legally sound documents in minutes using our advanced GPT-4 powered system.", components.IconFileDownload()},
	{"Professional PDF Format", "Get beautifully formatted PDF documents ready for immediate use and distribution.", components.IconFileInput()},
	{"Legal Compliance", "Documents tailored to specific jurisdictions and industry requirements for full compliance.", components.IconCheckCircle()},
}

var landingSteps = [][2]string{
	{"Select Document Type", "Choose from our library of legal document templates for your specific needs."},
	{"Enter Your Details", "Provide specific information needed to customize your legal document."},
	{"Generate & Download", "Our AI creates your document, which you can instantly download as a PDF."},
}

var landingDocuments = []landingDocument{
	{"Non-Disclosure Agreement", "Protect your confidential information when sharing with partners, employees, or contractors.", ""},
	{"Terms of Service", "Establish the rules and guidelines for using your website or application services.", ""},
	{"Privacy Policy", "Inform users about how you collect, use, and protect their personal information.", ""},
	{"Employment Contract", "Define the employment relationship between your company and employees.", ""},
	{"Business Contract", "Formalize business agreements and outline responsibilities between parties.", ""},
	{"View All Documents", "Browse our complete library of legal document templates for various needs.", "bg-gray-100"},
}

var footerColumns = []struct {
	Title string
	Links []string
}{
	{"Documents", []string{"Non-Disclosure Agreement", "Terms of Service", "Privacy Policy", "Employment Contract"}},
	{"Company", []string{"About Us", "Contact", "Blog", "FAQ"}},
	{"Legal", []string{"Terms", "Privacy", "Cookies", "Licenses"}},
}

var previewBars = []string{
	"h-8 w-full border-b border-gray-300",
	"h-4 w-3/4",
	"h-4 w-5/6",
	"h-4 w-4/5",
	"h-12 w-full mt-4",
	"h-4 w-3/4",
	"h-4 w-full",
	"h-4 w-5/6",
}
