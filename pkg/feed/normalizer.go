package feed

import (
	"context"
	"fmt"
	"html"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/umputun/intellect/pkg/domain"
)

// DefaultPlaceholderThumbnail is used when an entry has no image at all
const DefaultPlaceholderThumbnail = "https://placehold.co/64x64?text=No+Image"

//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor

// Extractor fetches the full text of an article page
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// NormalizerParams defines parameters for the feed normalizer
type NormalizerParams struct {
	Timeout     time.Duration
	UserAgent   string
	Placeholder string // thumbnail used when nothing found, DefaultPlaceholderThumbnail if empty

	// optional enrichment of entries with short content
	Extractor     Extractor
	MinTextLength int
}

// Normalizer fetches feeds and converts their entries to candidate articles
type Normalizer struct {
	client        *http.Client
	userAgent     string
	placeholder   string
	extractor     Extractor
	minTextLength int
	htmlPolicy    *bluemonday.Policy
	textPolicy    *bluemonday.Policy
	now           func() time.Time
}

// NewNormalizer makes a feed normalizer
func NewNormalizer(params NormalizerParams) *Normalizer {
	if params.Timeout <= 0 {
		params.Timeout = 30 * time.Second
	}
	if params.Placeholder == "" {
		params.Placeholder = DefaultPlaceholderThumbnail
	}
	return &Normalizer{
		client: &http.Client{
			Timeout: params.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent:     params.UserAgent,
		placeholder:   params.Placeholder,
		extractor:     params.Extractor,
		minTextLength: params.MinTextLength,
		htmlPolicy:    bluemonday.UGCPolicy(),
		textPolicy:    bluemonday.StrictPolicy(),
		now:           time.Now,
	}
}

// Normalize fetches and parses the feed of src and returns a lazy sequence of candidate articles.
// The feed is fetched once per call, iterating the sequence again converts the same entries again.
// Entries without text content or without a link are dropped from the sequence.
// Errors wrap one of ErrInvalidSource, ErrFetchFailure, ErrParseFailure or ErrEmptyFeed.
func (n *Normalizer) Normalize(ctx context.Context, src domain.FeedSource) (iter.Seq[domain.Article], error) {
	u, err := url.Parse(strings.TrimSpace(src.URL))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSource, src.URL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q has no http(s) scheme", ErrInvalidSource, src.URL)
	}

	body, err := n.fetch(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailure, src.URL, err)
	}
	defer body.Close()

	parsed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParseFailure, src.URL, err)
	}
	if len(parsed.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFeed, src.URL)
	}

	return func(yield func(domain.Article) bool) {
		for _, item := range parsed.Items {
			if item == nil {
				continue
			}
			article, dropped := n.convert(ctx, src, parsed, item)
			if dropped != "" {
				lgr.Printf("[DEBUG] dropped entry %q from %s: %s", item.Title, src.Source, dropped)
				continue
			}
			if !yield(article) {
				return
			}
		}
	}, nil
}

// fetch retrieves feed body, caller closes it
func (n *Normalizer) fetch(ctx context.Context, feedURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	addBrowserHeaders(req, n.userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch url: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// convert makes an article from a feed entry. Entries without text content or without a link
// are dropped, the returned reason is empty for accepted entries.
func (n *Normalizer) convert(ctx context.Context, src domain.FeedSource, f *gofeed.Feed, item *gofeed.Item) (domain.Article, string) {
	raw := firstNonBlank(item.Content, item.Description, itunesSummary(item), dublinCoreDescription(item))
	content := strings.TrimSpace(n.htmlPolicy.Sanitize(raw))
	if strings.TrimSpace(html.UnescapeString(n.textPolicy.Sanitize(content))) == "" {
		return domain.Article{}, "no content"
	}

	// url is the article identity, an entry without it can't be stored or deduplicated
	link := strings.TrimSpace(item.Link)
	if link == "" {
		return domain.Article{}, "no link"
	}
	article := domain.Article{
		Source:    src.Source,
		Platform:  src.PlatformOrDefault(),
		URL:       link,
		Title:     strings.TrimSpace(item.Title),
		Content:   content,
		Timestamp: n.timestamp(src, item),
		Thumbnail: n.thumbnail(f, item, raw),
		Author:    author(item),
		TagStatus: domain.TagStatusPending,
	}

	// keep description as summary when the body came from the full content field
	if strings.TrimSpace(item.Content) != "" && strings.TrimSpace(item.Description) != "" {
		article.Summary = strings.TrimSpace(n.textPolicy.Sanitize(item.Description))
	}

	n.enrich(ctx, &article)
	return article, ""
}

func (n *Normalizer) timestamp(src domain.FeedSource, item *gofeed.Item) time.Time {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.UTC()
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.UTC()
	}
	lgr.Printf("[WARN] no publish time for %q from %s, using ingestion time", item.Link, src.Source)
	return n.now().UTC()
}

// enrich replaces short content with the extracted page text if it is longer
func (n *Normalizer) enrich(ctx context.Context, article *domain.Article) {
	if n.extractor == nil || n.minTextLength <= 0 || article.URL == "" {
		return
	}
	current := n.textPolicy.Sanitize(article.Content)
	if utf8.RuneCountInString(current) >= n.minTextLength {
		return
	}
	text, err := n.extractor.Extract(ctx, article.URL)
	if err != nil {
		lgr.Printf("[DEBUG] can't extract content for %s: %v", article.URL, err)
		return
	}
	if utf8.RuneCountInString(text) > utf8.RuneCountInString(current) {
		if article.Summary == "" {
			article.Summary = strings.TrimSpace(current)
		}
		article.Content = text
	}
}

func author(item *gofeed.Item) string {
	if item.Author != nil && strings.TrimSpace(item.Author.Name) != "" {
		return strings.TrimSpace(item.Author.Name)
	}
	for _, a := range item.Authors {
		if a != nil && strings.TrimSpace(a.Name) != "" {
			return strings.TrimSpace(a.Name)
		}
	}
	return ""
}

func itunesSummary(item *gofeed.Item) string {
	if item.ITunesExt == nil {
		return ""
	}
	return item.ITunesExt.Summary
}

func dublinCoreDescription(item *gofeed.Item) string {
	if item.DublinCoreExt == nil || len(item.DublinCoreExt.Description) == 0 {
		return ""
	}
	return item.DublinCoreExt.Description[0]
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
