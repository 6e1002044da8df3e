package formatter

import (
	"strings"
	"time"

	"github.com/alexanderramin/pulse/internal/domain"
)

const newsSummaryWidth = 60

// FormatNewsList renders the latest news items with relative times.
func FormatNewsList(items []domain.NewsItem, now time.Time) string {
	if len(items) == 0 {
		return Dim("暂无资讯")
	}
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		at := it.PublishedAt
		if at == "" {
			at = it.CreatedAt
		}
		meta := []string{HumanAt(at, now)}
		if it.Source != "" {
			meta = append(meta, it.Source)
		}
		b.WriteString(Bold(it.Title) + "  " + Dim(strings.Join(meta, " · ")) + "\n")
		if it.Summary != "" {
			b.WriteString("  " + Truncate(it.Summary, newsSummaryWidth) + "\n")
		}
		if it.URL != "" {
			b.WriteString("  " + StyleBlue.Render(it.URL) + "\n")
		}
	}
	return b.String()
}
