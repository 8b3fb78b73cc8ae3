package resolver

import (
	"regexp"
	"slices"
	"strconv"

	"github.com/hbollon/go-edlib"

	"pexelsimport/pkg/errors"
	"pexelsimport/pkg/pexels"
)

// suggestionThreshold is the minimum Jaro-Winkler similarity for a "did you mean"
const suggestionThreshold = 0.7

var customSizePattern = regexp.MustCompile(`(\d+)x(\d+)`)

// CustomSize is a maximum width and height requested by the user
type CustomSize struct {
	Width  int
	Height int
}

// SizeSpec describes which image URL to pick for every photo
type SizeSpec struct {
	Name   string
	Custom *CustomSize
	Crop   bool
}

// NewSizeSpec builds a SizeSpec from the size, custom_size and crop options.
// An empty size means original.
func NewSizeSpec(opts Options) (SizeSpec, error) {
	name := opts.Get(OptSize)
	if name == "" {
		name = pexels.SizeOriginal
	}
	name, err := ParseSize(name)
	if err != nil {
		return SizeSpec{}, err
	}

	custom, err := ParseCustomSize(opts.Get(OptCustomSize))
	if err != nil {
		return SizeSpec{}, err
	}

	return SizeSpec{
		Name:   name,
		Custom: custom,
		Crop:   opts.Flag(OptCrop, false),
	}, nil
}

// ParseSize validates a predefined size name
func ParseSize(name string) (string, error) {
	if slices.Contains(pexels.Sizes, name) {
		return name, nil
	}
	return "", errors.InvalidSize(name, suggestSize(name))
}

// suggestSize returns the closest predefined size name, or "" if none is close
func suggestSize(name string) string {
	best, bestScore := "", float32(0)
	for _, size := range pexels.Sizes {
		score := edlib.JaroWinklerSimilarity(name, size)
		if score > bestScore {
			best, bestScore = size, score
		}
	}
	if bestScore < suggestionThreshold {
		return ""
	}
	return best
}

// ParseCustomSize parses a WIDTHxHEIGHT value. An empty value yields nil.
func ParseCustomSize(value string) (*CustomSize, error) {
	if value == "" {
		return nil, nil
	}

	m := customSizePattern.FindStringSubmatch(value)
	if m == nil {
		return nil, errors.InvalidCustomSize(value)
	}

	width, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, errors.InvalidCustomSize(value)
	}
	height, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, errors.InvalidCustomSize(value)
	}

	return &CustomSize{Width: width, Height: height}, nil
}
