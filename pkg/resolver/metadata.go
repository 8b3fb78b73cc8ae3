package resolver

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"pexelsimport/pkg/pexels"
)

var pageSlugPattern = regexp.MustCompile(`^.+/photo/([^/]+)-\d{3,}/$`)

// upperCaser is applied to the first rune of each word only
var upperCaser = cases.Upper(language.English)

// DeriveTitle builds a title from a photo page URL such as
// https://www.pexels.com/photo/snow-covered-pine-trees-3604268/ ("Snow Covered Pine Trees").
// URLs that do not look like a photo page keep their text with each
// whitespace-separated word capitalised.
func DeriveTitle(pageURL string) string {
	slug := pageSlugPattern.ReplaceAllString(pageURL, "$1")
	return capitalizeWords(strings.ReplaceAll(slug, "-", " "))
}

// capitalizeWords upper-cases the first character after whitespace and
// leaves every other character untouched
func capitalizeWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	atStart := true
	for _, r := range s {
		if atStart && !isWordSeparator(r) {
			b.WriteString(upperCaser.String(string(r)))
		} else {
			b.WriteRune(r)
		}
		atStart = isWordSeparator(r)
	}
	return b.String()
}

func isWordSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n', '\f', '\v':
		return true
	}
	return false
}

// CreditDescription returns the HTML attribution line for a photo
func CreditDescription(photo *pexels.Photo) string {
	return fmt.Sprintf(
		`Photo by <a href="%s" target="_blank" rel="noopener">%s</a> on <a href="%s" target="_blank" rel="noopener">Pexels</a>.`,
		html.EscapeString(photo.PhotographerURL),
		html.EscapeString(photo.Photographer),
		html.EscapeString(photo.URL),
	)
}

// ApplySingleDefaults fills in title and, when crediting is enabled, the
// description for a single-photo import. Explicit values are kept.
func ApplySingleDefaults(opts Options, photo *pexels.Photo) Options {
	out := opts.Clone()
	if !out.Has(OptTitle) {
		out[OptTitle] = DeriveTitle(photo.URL)
	}
	if out.Flag(OptCredit, true) && !out.Has(OptDesc) {
		out[OptDesc] = CreditDescription(photo)
	}
	return out
}
