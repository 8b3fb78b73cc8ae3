package pexels

import (
	"fmt"
	"net/url"
)

const (
	// BaseURL is the Pexels API v1 root
	BaseURL = "https://api.pexels.com/v1/"

	// CuratedEndpoint lists editorially curated photos
	CuratedEndpoint = "curated"

	// PhotoEndpoint fetches one photo by ID
	PhotoEndpoint = "photos/"

	// MaxRandomPage is the highest curated page a random pick may land on
	MaxRandomPage = 1000
)

// GetCuratedURL builds the single-photo curated page URL used for random picks
func GetCuratedURL(baseURL string, page int) string {
	return fmt.Sprintf("%s%s?per_page=1&page=%d", baseURL, CuratedEndpoint, page)
}

// GetPhotoURL builds the photo-by-ID URL
func GetPhotoURL(baseURL, id string) string {
	return baseURL + PhotoEndpoint + url.PathEscape(id)
}

// GetRequestURL returns the API URL an identifier resolves against
func GetRequestURL(baseURL string, id Identifier, page int) string {
	if id.IsRandom() {
		return GetCuratedURL(baseURL, page)
	}
	return GetPhotoURL(baseURL, id.ID)
}
