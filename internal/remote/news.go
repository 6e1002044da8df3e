package remote

import (
	"context"

	"github.com/alexanderramin/pulse/internal/domain"
)

type NewsRow struct {
	ID          FlexID  `json:"id"`
	NewsDate    string  `json:"news_date"`
	PublishedAt *string `json:"published_at"`
	Title       string  `json:"title"`
	Summary     *string `json:"summary"`
	Content     *string `json:"content"`
	URL         *string `json:"url"`
	Source      *string `json:"source"`
	CreatedAt   string  `json:"created_at"`
}

func (r NewsRow) Domain() domain.NewsItem {
	return domain.NewsItem{
		ID:          string(r.ID),
		NewsDate:    r.NewsDate,
		PublishedAt: deref(r.PublishedAt),
		Title:       r.Title,
		Summary:     deref(r.Summary),
		Content:     deref(r.Content),
		URL:         deref(r.URL),
		Source:      deref(r.Source),
		CreatedAt:   r.CreatedAt,
	}
}

type NewsInsert struct {
	NewsDate    string  `json:"news_date"`
	PublishedAt *string `json:"published_at,omitempty"`
	Title       string  `json:"title"`
	Summary     *string `json:"summary,omitempty"`
	Content     *string `json:"content,omitempty"`
	URL         *string `json:"url,omitempty"`
	Source      *string `json:"source,omitempty"`
}

// NewsInsertFrom maps a domain item to an insert payload; blank optional
// fields are omitted.
func NewsInsertFrom(n domain.NewsItem) NewsInsert {
	return NewsInsert{
		NewsDate:    n.NewsDate,
		PublishedAt: optional(n.PublishedAt),
		Title:       n.Title,
		Summary:     optional(n.Summary),
		Content:     optional(n.Content),
		URL:         optional(n.URL),
		Source:      optional(n.Source),
	}
}

const newsColumns = "id,news_date,published_at,title,summary,content,url,source,created_at"

// LatestNews lists news, newest publication first.
func (c *Client) LatestNews(ctx context.Context, limit int) ([]NewsRow, error) {
	var rows []NewsRow
	err := c.Select(ctx, TableNews, Query{
		Select: newsColumns,
		Order:  []string{"published_at.desc", "created_at.desc"},
		Limit:  limit,
	}, &rows)
	return rows, err
}

// NewsPage lists news oldest first, for full scans.
func (c *Client) NewsPage(ctx context.Context, limit, offset int) ([]NewsRow, error) {
	var rows []NewsRow
	err := c.Select(ctx, TableNews, Query{
		Select: "id,news_date,published_at,title,summary,url,source,created_at",
		Order:  []string{"created_at.asc"},
		Limit:  limit,
		Offset: offset,
	}, &rows)
	return rows, err
}

func (c *Client) InsertNews(ctx context.Context, rows []NewsInsert) (int, error) {
	return Insert(ctx, c, TableNews, rows)
}

func (c *Client) DeleteNews(ctx context.Context, id string) error {
	return c.Delete(ctx, TableNews, map[string]string{"id": id})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
