package feed

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/umputun/intellect/pkg/domain"
)

// Generator creates RSS feeds from tagged articles
type Generator struct {
	baseURL string
	now     func() time.Time
}

// NewGenerator creates a new feed generator
func NewGenerator(baseURL string) *Generator {
	return &Generator{baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}
}

// GenerateRSS creates an RSS 2.0 feed from articles, category is used for title and self link only
func (g *Generator) GenerateRSS(articles []domain.Article, category string) (string, error) {
	title := "Intellect - All Categories"
	selfLink := g.baseURL + "/rss"
	if category != "" {
		title = "Intellect - " + category
		selfLink = g.baseURL + "/rss/" + url.PathEscape(category)
	}

	items := make([]*RSSItem, 0, len(articles))
	for _, a := range articles {
		items = append(items, g.convertToRSSItem(a))
	}

	feed := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         title,
			Link:          g.baseURL + "/",
			Description:   "AI news collected and tagged by Intellect",
			AtomLink:      &AtomLink{Href: selfLink, Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: g.now().Format(time.RFC1123Z),
			Items:         items,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal rss: %w", err)
	}
	return xml.Header + string(output), nil
}

func (g *Generator) convertToRSSItem(a domain.Article) *RSSItem {
	desc := a.Summary
	if desc == "" {
		desc = a.Content
	}
	if len(a.Tags) > 0 {
		desc = fmt.Sprintf("Tags: %s\n\n%s", strings.Join(a.Tags, ", "), desc)
	}

	categories := make([]string, 0, len(a.Tags)+1)
	if a.Category != "" {
		categories = append(categories, a.Category)
	}
	categories = append(categories, a.Tags...)

	item := &RSSItem{
		Title:       a.Title,
		Link:        a.URL,
		GUID:        a.URL,
		Description: desc,
		Author:      a.Author,
		PubDate:     a.Timestamp.Format(time.RFC1123Z),
		Categories:  categories,
	}
	if a.Title == "" {
		item.Title = a.Source + " #" + strconv.FormatInt(a.ID, 10)
	}
	if a.Thumbnail != "" {
		item.Enclosure = &RSSEnclosure{URL: a.Thumbnail, Type: imageType(a.Thumbnail)}
	}
	return item
}

// imageType guesses enclosure mime type from url extension
func imageType(u string) string {
	path := strings.ToLower(u)
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	switch {
	case strings.HasSuffix(path, ".png"):
		return "image/png"
	case strings.HasSuffix(path, ".gif"):
		return "image/gif"
	case strings.HasSuffix(path, ".webp"):
		return "image/webp"
	case strings.HasSuffix(path, ".svg"):
		return "image/svg+xml"
	}
	return "image/jpeg"
}
