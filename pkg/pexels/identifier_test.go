package pexels

import (
	"testing"

	"pexelsimport/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected Identifier
	}{
		{"bare ID", "3604268", NumericID("3604268")},
		{"three digits", "123", NumericID("123")},
		{"page URL", "https://www.pexels.com/photo/man-in-white-shirt-3604268/", NumericID("3604268")},
		{"page URL without scheme", "pexels.com/photo/sunset-over-sea-1000/", NumericID("1000")},
		{"random", "random", Random},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseIdentifier(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestParseIdentifier_Invalid(t *testing.T) {
	tokens := []string{
		"",
		"12",
		"abc",
		"12345x",
		"RANDOM",
		"https://www.pexels.com/photo/man-in-white-shirt-3604268",
		"https://www.pexels.com/photo/short-12/",
	}

	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			_, err := ParseIdentifier(token)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidIdentifier))
			assert.Contains(t, err.Error(), "'"+token+"'")
		})
	}
}

func TestParseIdentifiers(t *testing.T) {
	ids, err := ParseIdentifiers([]string{"3604268", "random", "random"})
	require.NoError(t, err)
	assert.Equal(t, []Identifier{NumericID("3604268"), Random, Random}, ids)

	_, err = ParseIdentifiers([]string{"3604268", "bogus", "12"})
	require.Error(t, err)

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "bogus", e.Token)
}

func TestIdentifierString(t *testing.T) {
	assert.Equal(t, "random", Random.String())
	assert.Equal(t, "42424", NumericID("42424").String())
	assert.True(t, Random.IsRandom())
	assert.False(t, NumericID("42424").IsRandom())
}
