// Package pexels provides a client for the Pexels photo API.
//
// This package includes:
//   - Identifier parsing for bare photo IDs, photo page URLs and "random"
//   - A configurable HTTP client that authenticates with an API key
//   - The Photo model and its predefined size URLs
//   - Helper functions for constructing API endpoints
//
// Example usage:
//
//	client := pexels.NewClient(apiKey, 30*time.Second, log)
//
//	id, err := pexels.ParseIdentifier("https://www.pexels.com/photo/some-title-3604268/")
//	if err != nil {
//	    return err
//	}
//
//	photo, err := client.FetchPhoto(ctx, id)
//	if err != nil {
//	    switch errors.TypeOf(err) {
//	    case errors.ErrorTypeAPIRequest:
//	        // Non-2xx response
//	    case errors.ErrorTypeAPIParse:
//	        // Body held no usable photo
//	    }
//	}
//
//	large, _ := photo.SrcURL(pexels.SizeLarge)
package pexels
