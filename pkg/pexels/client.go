package pexels

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"pexelsimport/pkg/errors"
	"pexelsimport/pkg/logger"
)

// DefaultUserAgent identifies the client to the API
const DefaultUserAgent = "pexelsimport"

// ErrMissingAPIKey is returned when a request is attempted without credentials
var ErrMissingAPIKey = &errors.Error{
	Type:    errors.ErrorTypeAuth,
	Message: "Pexels API key is missing; run 'pexelsimport auth set-key' or set PEXELS_API_KEY",
}

// Client represents a Pexels API client
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	apiKey     string
	logger     logger.Logger
	randomPage func() int
}

// NewClient creates a new Pexels API client. The timeout bounds every request.
func NewClient(apiKey string, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent": DefaultUserAgent,
			"Accept":     "application/json",
		},
		baseURL:    BaseURL,
		apiKey:     apiKey,
		logger:     log,
		randomPage: RandomPage,
	}
}

// RandomPage draws a curated page number uniformly from 1..MaxRandomPage
func RandomPage() int {
	return rand.IntN(MaxRandomPage) + 1
}

// SetBaseURL points the client at a different API root (it must end in '/')
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetPageSource replaces the random curated page generator
func (c *Client) SetPageSource(fn func() int) {
	c.randomPage = fn
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Authorization", c.apiKey)

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errors.Network(req.URL.String(), err)
	}

	logger.LogRequest(c.logger, req.Method, req.URL.String(), resp.StatusCode, duration.Milliseconds())

	return resp, nil
}

// get performs a GET request and returns the body of a 2xx response
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to create request: %v", err),
			URL:     url,
			Err:     err,
		}
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.APIRequestFailed(url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Network(url, err)
	}
	return body, nil
}

// FetchPhoto resolves an identifier into photo metadata. Random identifiers
// pick one photo from a random curated page.
func (c *Client) FetchPhoto(ctx context.Context, id Identifier) (*Photo, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	page := 0
	if id.IsRandom() {
		page = c.randomPage()
	}
	url := GetRequestURL(c.baseURL, id, page)

	c.logger.DebugWithFields("fetching photo", map[string]interface{}{
		"identifier": id.String(),
		"url":        url,
	})

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	photo, err := decodePhoto(body)
	if err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse photo response", map[string]interface{}{
			"url":          url,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return nil, errors.APIParseFailed(url, err)
	}

	c.logger.DebugWithFields("fetched photo", map[string]interface{}{
		"identifier": id.String(),
		"photo_id":   photo.ID,
		"page_url":   photo.URL,
	})

	return photo, nil
}

// decodePhoto accepts either the curated envelope or a bare photo object
func decodePhoto(body []byte) (*Photo, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, err
	}

	var photo Photo
	switch {
	case probe["photos"] != nil:
		var curated curatedResponse
		if err := json.Unmarshal(body, &curated); err != nil {
			return nil, err
		}
		if len(curated.Photos) == 0 {
			return nil, stderrors.New("curated response holds no photos")
		}
		photo = curated.Photos[0]
	case probe["src"] != nil:
		if err := json.Unmarshal(body, &photo); err != nil {
			return nil, err
		}
	default:
		return nil, stderrors.New("response holds neither 'photos' nor 'src'")
	}

	if _, ok := photo.SrcURL(SizeOriginal); !ok {
		return nil, stderrors.New("photo has no original size URL")
	}
	return &photo, nil
}
