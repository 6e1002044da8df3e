package domain

import "strings"

type NewsItem struct {
	ID          string
	NewsDate    string
	PublishedAt string
	Title       string
	Summary     string
	Content     string
	URL         string
	Source      string
	CreatedAt   string
}

// DedupKey groups news rows that describe the same article: by URL when
// one is present, otherwise by date, title and source.
func (n NewsItem) DedupKey() string {
	if u := strings.TrimSpace(n.URL); u != "" {
		return "url:" + u
	}
	return "ts:" + n.NewsDate + "|" + strings.TrimSpace(n.Title) + "|" + strings.TrimSpace(n.Source)
}
