// Package dedup rejects articles whose normalized url is already known.
//
// The in-memory set is a fast path only, the unique url_key column in the store is authoritative.
package dedup

import (
	"strings"
	"sync"

	"github.com/umputun/intellect/pkg/domain"
)

// DefaultTrackingParams are query keys dropped during normalization
var DefaultTrackingParams = []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content"}

// Gate decides whether a candidate article is new. Safe for concurrent use.
type Gate struct {
	mu       sync.Mutex
	known    map[string]struct{}
	tracking map[string]struct{}
}

// NewGate makes a gate seeded with already known normalized urls.
// Extra tracking parameters are added to DefaultTrackingParams.
func NewGate(known []string, extraTracking ...string) *Gate {
	g := &Gate{
		known:    make(map[string]struct{}, len(known)),
		tracking: make(map[string]struct{}, len(DefaultTrackingParams)+len(extraTracking)),
	}
	for _, p := range DefaultTrackingParams {
		g.tracking[p] = struct{}{}
	}
	for _, p := range extraTracking {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			g.tracking[p] = struct{}{}
		}
	}
	for _, k := range known {
		g.known[k] = struct{}{}
	}
	return g
}

// Key returns the normalized form of rawURL using the gate's tracking set
func (g *Gate) Key(rawURL string) string {
	return normalize(rawURL, g.tracking)
}

// Accept sets article.URLKey and reports whether the article is new.
// An accepted key is remembered, so an equivalent url later in the same batch is rejected.
func (g *Gate) Accept(article *domain.Article) bool {
	key := g.Key(article.URL)
	article.URLKey = key
	if key == "" {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.known[key]; ok {
		return false
	}
	g.known[key] = struct{}{}
	return true
}

// Forget removes a key, used when an accepted article failed to persist
func (g *Gate) Forget(key string) {
	g.mu.Lock()
	delete(g.known, key)
	g.mu.Unlock()
}

// Len returns the number of known keys
func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.known)
}

// NormalizeURL normalizes rawURL with the default tracking parameters
func NormalizeURL(rawURL string) string {
	return normalize(rawURL, nil)
}

// normalize lowercases the url, strips trailing slashes of the path and drops tracking
// query parameters keeping the remaining ones in their original order.
// The fragment is kept as is.
func normalize(rawURL string, tracking map[string]struct{}) string {
	u := strings.ToLower(strings.TrimSpace(rawURL))
	if u == "" {
		return ""
	}

	fragment := ""
	if idx := strings.Index(u, "#"); idx >= 0 {
		u, fragment = u[:idx], u[idx:]
	}

	base, query, hasQuery := strings.Cut(u, "?")
	base = strings.TrimRight(base, "/")

	if hasQuery {
		kept := make([]string, 0, strings.Count(query, "&")+1)
		for _, pair := range strings.Split(query, "&") {
			if pair == "" {
				continue
			}
			key, _, _ := strings.Cut(pair, "=")
			if isTracking(key, tracking) {
				continue
			}
			kept = append(kept, pair)
		}
		if len(kept) > 0 {
			base += "?" + strings.Join(kept, "&")
		}
	}

	return base + fragment
}

func isTracking(key string, tracking map[string]struct{}) bool {
	if tracking == nil {
		for _, p := range DefaultTrackingParams {
			if key == p {
				return true
			}
		}
		return false
	}
	_, ok := tracking[key]
	return ok
}
