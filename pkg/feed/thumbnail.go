package feed

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// thumbnail picks the entry image: media reference, item or feed image, image enclosure,
// first <img> of the content, placeholder. Relative urls are resolved against the entry link.
func (n *Normalizer) thumbnail(f *gofeed.Feed, item *gofeed.Item, rawContent string) string {
	candidates := []func() string{
		func() string { return mediaURL(item) },
		func() string {
			if item.Image != nil {
				return item.Image.URL
			}
			return ""
		},
		func() string {
			if f != nil && f.Image != nil {
				return f.Image.URL
			}
			return ""
		},
		func() string { return imageEnclosure(item) },
		func() string { return firstImage(rawContent) },
	}

	for _, candidate := range candidates {
		if u := strings.TrimSpace(candidate()); u != "" {
			return resolveURL(item.Link, u)
		}
	}
	return n.placeholder
}

// mediaURL returns media:content or media:thumbnail url, including ones nested in media:group
func mediaURL(item *gofeed.Item) string {
	media, ok := item.Extensions["media"]
	if !ok {
		return ""
	}
	for _, name := range []string{"content", "thumbnail"} {
		for _, e := range media[name] {
			if u := e.Attrs["url"]; u != "" && isImageMedia(e.Attrs) {
				return u
			}
		}
	}
	for _, group := range media["group"] {
		for _, name := range []string{"content", "thumbnail"} {
			for _, e := range group.Children[name] {
				if u := e.Attrs["url"]; u != "" && isImageMedia(e.Attrs) {
					return u
				}
			}
		}
	}
	return ""
}

// isImageMedia rejects media:content entries explicitly typed as non-image (video, audio)
func isImageMedia(attrs map[string]string) bool {
	if medium := attrs["medium"]; medium != "" && medium != "image" {
		return false
	}
	if typ := attrs["type"]; typ != "" && !strings.HasPrefix(typ, "image/") {
		return false
	}
	return true
}

func imageEnclosure(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(strings.ToLower(enc.Type), "image/") && enc.URL != "" {
			return enc.URL
		}
	}
	return ""
}

// firstImage returns src of the first <img> in html content
func firstImage(html string) string {
	if !strings.Contains(html, "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	var src string
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr("src"); ok && strings.TrimSpace(v) != "" {
			src = strings.TrimSpace(v)
			return false
		}
		return true
	})
	return src
}

func resolveURL(base, ref string) string {
	r, err := url.Parse(ref)
	if err != nil || r.IsAbs() {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return ref
	}
	return b.ResolveReference(r).String()
}
