package components

import (
	"strings"

	"github.com/a-h/templ"
)

type ButtonVariant string

const (
	ButtonDefault     ButtonVariant = "default"
	ButtonDestructive ButtonVariant = "destructive"
	ButtonOutline     ButtonVariant = "outline"
	ButtonSecondary   ButtonVariant = "secondary"
	ButtonGhost       ButtonVariant = "ghost"
	ButtonLink        ButtonVariant = "link"
	ButtonBrutalist   ButtonVariant = "brutalist"
)

type ButtonSize string

const (
	SizeDefault ButtonSize = "default"
	SizeSmall   ButtonSize = "sm"
	SizeLarge   ButtonSize = "lg"
	SizeIcon    ButtonSize = "icon"
)

const buttonBase = "relative inline-flex items-center justify-center whitespace-nowrap rounded-none px-6 py-3 text-sm font-medium ring-offset-background transition-all focus-visible:outline-none focus-visible:ring-2 focus-visible:ring-ring focus-visible:ring-offset-2 disabled:pointer-events-none disabled:opacity-50"

var buttonVariants = map[ButtonVariant]string{
	ButtonDefault:     "bg-primary text-primary-foreground hover:bg-primary/90",
	ButtonDestructive: "bg-destructive text-destructive-foreground hover:bg-destructive/90",
	ButtonOutline:     "border-2 border-primary bg-transparent hover:bg-accent hover:text-accent-foreground",
	ButtonSecondary:   "bg-secondary text-secondary-foreground hover:bg-secondary/80",
	ButtonGhost:       "hover:bg-accent hover:text-accent-foreground",
	ButtonLink:        "text-primary underline-offset-4 hover:underline",
	ButtonBrutalist:   "border-2 border-black bg-white text-black hover:translate-x-[-4px] hover:translate-y-[-4px] hover:shadow-[4px_4px_0px_0px_rgba(0,0,0)] transition-all",
}

var buttonSizes = map[ButtonSize]string{
	SizeDefault: "h-11",
	SizeSmall:   "h-9 px-3",
	SizeLarge:   "h-12 px-8",
	SizeIcon:    "h-10 w-10",
}

// ButtonClasses resolves a variant and size to the button's class list.
// Unknown or empty values fall back to the defaults; extra is appended.
func ButtonClasses(variant ButtonVariant, size ButtonSize, extra string) string {
	v, ok := buttonVariants[variant]
	if !ok {
		v = buttonVariants[ButtonDefault]
	}
	s, ok := buttonSizes[size]
	if !ok {
		s = buttonSizes[SizeDefault]
	}
	return Classes(buttonBase, v, s, extra)
}

// ButtonProps configures Button. A non-empty Href renders a link styled as a
// button; otherwise a <button> of the given Type (default "button").
type ButtonProps struct {
	Variant ButtonVariant
	Size    ButtonSize
	Class   string
	Href    string
	Type    string
	Attrs   templ.Attributes
}

func (p ButtonProps) buttonType() string {
	if p.Type == "" {
		return "button"
	}
	return p.Type
}

// Classes joins non-empty class lists with single spaces
func Classes(lists ...string) string {
	var fields []string
	for _, l := range lists {
		fields = append(fields, strings.Fields(l)...)
	}
	return strings.Join(fields, " ")
}
