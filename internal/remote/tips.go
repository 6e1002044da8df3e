package remote

import (
	"context"

	"github.com/alexanderramin/pulse/internal/domain"
)

type TipRow struct {
	ID        int    `json:"id"`
	Content   string `json:"content"`
	TipDate   string `json:"tip_date"`
	CreatedAt string `json:"created_at,omitempty"`
}

func (r TipRow) Domain() domain.DailyTip {
	return domain.DailyTip{ID: r.ID, TipDate: r.TipDate, Content: r.Content}
}

// TipsForDate lists tips scheduled for date ("2006-01-02").
func (c *Client) TipsForDate(ctx context.Context, date string) ([]TipRow, error) {
	var rows []TipRow
	err := c.Select(ctx, TableTips, Query{Select: "*", Eq: map[string]string{"tip_date": date}}, &rows)
	return rows, err
}

// FirstTip returns the oldest tip, or nil when the table is empty.
func (c *Client) FirstTip(ctx context.Context) (*TipRow, error) {
	var rows []TipRow
	if err := c.Select(ctx, TableTips, Query{Select: "*", Order: []string{"id.asc"}, Limit: 1}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
