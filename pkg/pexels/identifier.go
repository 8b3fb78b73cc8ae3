package pexels

import (
	"regexp"

	"pexelsimport/pkg/errors"
)

// IdentifierKind tells a numeric photo ID apart from a random curated pick
type IdentifierKind int

const (
	KindNumeric IdentifierKind = iota
	KindRandom
)

// RandomToken is the literal token that selects a random curated photo
const RandomToken = "random"

// Identifier is a parsed photo reference
type Identifier struct {
	Kind IdentifierKind
	// ID is the numeric photo ID; empty for KindRandom
	ID string
}

// Random is the identifier for a random curated photo
var Random = Identifier{Kind: KindRandom}

// NumericID returns an identifier for a known photo ID
func NumericID(id string) Identifier {
	return Identifier{Kind: KindNumeric, ID: id}
}

// IsRandom reports whether the identifier selects a random curated photo
func (i Identifier) IsRandom() bool {
	return i.Kind == KindRandom
}

func (i Identifier) String() string {
	if i.IsRandom() {
		return RandomToken
	}
	return i.ID
}

var (
	bareIDPattern  = regexp.MustCompile(`^\d{3,}$`)
	pageURLPattern = regexp.MustCompile(`-(\d{3,})/$`)
)

// ParseIdentifier turns a raw token into an Identifier. Accepted forms are a
// bare number of at least three digits, a page URL ending in "-<digits>/"
// and the literal "random".
func ParseIdentifier(token string) (Identifier, error) {
	switch {
	case token == RandomToken:
		return Random, nil
	case bareIDPattern.MatchString(token):
		return NumericID(token), nil
	}

	if m := pageURLPattern.FindStringSubmatch(token); m != nil {
		return NumericID(m[1]), nil
	}

	return Identifier{}, errors.InvalidIdentifier(token)
}

// ParseIdentifiers parses every token, failing on the first invalid one
func ParseIdentifiers(tokens []string) ([]Identifier, error) {
	ids := make([]Identifier, 0, len(tokens))
	for _, token := range tokens {
		id, err := ParseIdentifier(token)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
