package resolver

import (
	"fmt"
	"regexp"

	"pexelsimport/pkg/pexels"
)

// CropDirective is appended to custom-sized URLs when cropping is requested
const CropDirective = "&fit=crop"

var (
	widthParam  = regexp.MustCompile(`w=\d+`)
	heightParam = regexp.MustCompile(`h=\d+`)
)

// selectionRule yields a URL and true when it applies to the photo and spec
type selectionRule struct {
	name  string
	apply func(photo *pexels.Photo, spec SizeSpec) (string, bool)
}

// selectionRules are evaluated in order; the first match wins
var selectionRules = []selectionRule{
	{name: "named", apply: selectNamed},
	{name: "custom", apply: selectCustom},
	{name: "original", apply: selectOriginal},
}

// SelectURL picks the image URL for photo according to spec
func SelectURL(photo *pexels.Photo, spec SizeSpec) string {
	url, _ := selectWithRule(photo, spec)
	return url
}

// selectWithRule is SelectURL that also reports which rule matched
func selectWithRule(photo *pexels.Photo, spec SizeSpec) (string, string) {
	for _, rule := range selectionRules {
		if url, ok := rule.apply(photo, spec); ok {
			return url, rule.name
		}
	}
	return "", ""
}

func selectNamed(photo *pexels.Photo, spec SizeSpec) (string, bool) {
	if spec.Custom != nil {
		return "", false
	}
	return photo.SrcURL(spec.Name)
}

// selectCustom only ever downsizes
func selectCustom(photo *pexels.Photo, spec SizeSpec) (string, bool) {
	c := spec.Custom
	if c == nil || c.Width >= photo.Width || c.Height >= photo.Height {
		return "", false
	}

	large, ok := photo.SrcURL(pexels.SizeLarge)
	if !ok {
		return "", false
	}

	url := widthParam.ReplaceAllLiteralString(large, fmt.Sprintf("w=%d", c.Width))
	url = heightParam.ReplaceAllLiteralString(url, fmt.Sprintf("h=%d", c.Height))
	if spec.Crop {
		url += CropDirective
	}
	return url, true
}

func selectOriginal(photo *pexels.Photo, _ SizeSpec) (string, bool) {
	url, _ := photo.SrcURL(pexels.SizeOriginal)
	return url, true
}
