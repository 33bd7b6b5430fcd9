package domain

import "strings"

// CategoryOther is the catch-all category
const CategoryOther = "Other"

// Categories is the closed taxonomy the classifier picks from
var Categories = []string{
	"Artificial General Intelligence (AGI)",
	"Large Language Models (LLMs)",
	"Natural Language Processing (NLP)",
	"Computer Vision",
	"Reinforcement Learning",
	"Robotics",
	"AI Ethics & Safety",
	"AI Research",
	"AI Applications",
	"AI Infrastructure & Tooling",
	"AI Policy & Regulation",
	"AI Startups & Business",
	"Multimodal AI",
	"Open-Source AI",
	CategoryOther,
}

// Classification is the classifier result for one article
type Classification struct {
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
}

// NormalizeCategory maps a category to its canonical taxonomy spelling.
// Matching ignores case and surrounding spaces; unknown values become Other.
func NormalizeCategory(category string) string {
	c := strings.TrimSpace(category)
	for _, known := range Categories {
		if strings.EqualFold(c, known) {
			return known
		}
	}
	// classifier may drop the parenthesized examples, e.g. "AI Applications (e.g. healthcare)"
	if idx := strings.Index(c, "("); idx > 0 {
		prefix := strings.TrimSpace(c[:idx])
		for _, known := range Categories {
			if strings.EqualFold(prefix, known) {
				return known
			}
		}
	}
	return CategoryOther
}

// CleanTags trims tags, drops empty ones and removes duplicates keeping the first occurrence.
// The result is never nil.
func CleanTags(tags []string) []string {
	res := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		res = append(res, t)
	}
	return res
}
