// Package resolver turns photo identifiers and size options into an
// ImportRequest: an ordered list of image URLs plus the options an
// Importer needs.
//
// URL selection is an ordered rule table. A named size wins when no custom
// size is set and the photo has it. A custom size is applied to the "large"
// URL only when it is smaller than the photo in both dimensions. Everything
// else falls back to the original.
//
// Single-photo imports get a title derived from the page URL and, unless
// crediting is disabled, an attribution description. Batch imports drop
// title, caption and featured_image.
package resolver
