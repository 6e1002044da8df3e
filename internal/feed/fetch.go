// Package feed pulls health news from RSS and Atom feeds into the
// daily_news table.
package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/alexanderramin/pulse/internal/domain"
)

const (
	maxFeedBytes   = 5 * 1024 * 1024
	summaryRunes   = 200
	fetchTimeout   = 30 * time.Second
	newsDateLayout = "2006-01-02"
)

// Fetcher downloads and parses feeds.
type Fetcher struct {
	http   *http.Client
	parser *gofeed.Parser
	now    func() time.Time
}

// NewFetcher uses httpClient, or a client with a 30s timeout when nil.
func NewFetcher(httpClient *http.Client) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: fetchTimeout}
	}
	return &Fetcher{http: httpClient, parser: gofeed.NewParser(), now: time.Now}
}

// Fetch returns the feed's items as news rows.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]domain.NewsItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building feed request: %w", err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", feedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(b))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("fetching %s: status=%d: %s", feedURL, resp.StatusCode, msg)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", feedURL, err)
	}
	parsed, err := f.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", feedURL, err)
	}

	source := strings.TrimSpace(parsed.Title)
	if source == "" {
		source = feedURL
	}
	items := make([]domain.NewsItem, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		n := f.toNews(it, source)
		if n.Title == "" && n.URL == "" {
			continue
		}
		items = append(items, n)
	}
	return items, nil
}

func (f *Fetcher) toNews(it *gofeed.Item, source string) domain.NewsItem {
	published := f.now()
	switch {
	case it.PublishedParsed != nil:
		published = *it.PublishedParsed
	case it.UpdatedParsed != nil:
		published = *it.UpdatedParsed
	}

	summary := PlainText(it.Description)
	content := PlainText(it.Content)
	if content == "" {
		content = summary
	}
	return domain.NewsItem{
		NewsDate:    published.Local().Format(newsDateLayout),
		PublishedAt: published.UTC().Format(time.RFC3339),
		Title:       strings.TrimSpace(it.Title),
		Summary:     truncate(summary, summaryRunes),
		Content:     content,
		URL:         strings.TrimSpace(it.Link),
		Source:      source,
	}
}

// PlainText strips markup and collapses whitespace.
func PlainText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}
