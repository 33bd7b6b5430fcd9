// Package content extracts readable article text from web pages.
// The feed normalizer uses it to enrich entries whose feed content is too short to classify.
package content

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html/charset"
)

// DefaultUserAgent is sent when no user agent configured
const DefaultUserAgent = "Mozilla/5.0 (compatible; Intellect/1.0)"

// HTTPExtractor extracts article content from urls using trafilatura
type HTTPExtractor struct {
	client    *http.Client
	userAgent string
}

// NewHTTPExtractor creates a new content extractor
func NewHTTPExtractor(timeout time.Duration, userAgent string) *HTTPExtractor {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPExtractor{client: &http.Client{Timeout: timeout}, userAgent: userAgent}
}

// Extract retrieves the page and returns its main text content
func (e *HTTPExtractor) Extract(ctx context.Context, urlStr string) (string, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", fmt.Errorf("invalid url: %q", urlStr)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	addBrowserHeaders(req, e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", urlStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, urlStr)
	}

	// pages in legacy encodings are converted to utf-8 based on content type and meta tags
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", urlStr, err)
	}

	result, err := trafilatura.Extract(body, trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		Deduplicate:     true,
		OriginalURL:     parsedURL,
	})
	if err != nil {
		return "", fmt.Errorf("extract content from %s: %w", urlStr, err)
	}
	if result == nil || strings.TrimSpace(result.ContentText) == "" {
		return "", fmt.Errorf("no text content extracted from %s", urlStr)
	}
	return strings.TrimSpace(result.ContentText), nil
}
