package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/pulse/internal/domain"
)

const rssDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
  <title>健康时报</title>
  <link>https://news.example.com</link>
  <item>
    <title> 每天走路八千步 </title>
    <link>https://news.example.com/a1</link>
    <description><![CDATA[<p>研究<b>显示</b>  步行有益。</p><script>alert(1)</script>]]></description>
    <content:encoded><![CDATA[<div><p>第一段。</p><p>第二段。</p></div>]]></content:encoded>
    <pubDate>Mon, 06 May 2024 08:00:00 +0000</pubDate>
  </item>
  <item>
    <title>睡眠与心率</title>
    <description>纯文本摘要</description>
  </item>
  <item>
    <description>no title or link</description>
  </item>
</channel>
</rss>`

func feedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch(t *testing.T) {
	srv := feedServer(t, http.StatusOK, rssDoc)
	f := NewFetcher(srv.Client())
	fixed := time.Date(2024, 5, 7, 12, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return fixed }

	items, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, items, 2)

	a := items[0]
	assert.Equal(t, "每天走路八千步", a.Title)
	assert.Equal(t, "https://news.example.com/a1", a.URL)
	assert.Equal(t, "健康时报", a.Source)
	assert.Equal(t, "研究显示 步行有益。", a.Summary)
	assert.Equal(t, "第一段。第二段。", a.Content)
	assert.Equal(t, "2024-05-06T08:00:00Z", a.PublishedAt)

	b := items[1]
	assert.Equal(t, "纯文本摘要", b.Summary)
	assert.Equal(t, "纯文本摘要", b.Content)
	assert.Equal(t, fixed.Local().Format("2006-01-02"), b.NewsDate)
	assert.Equal(t, "ts:"+b.NewsDate+"|睡眠与心率|健康时报", b.DedupKey())
}

func TestFetch_Failures(t *testing.T) {
	bad := feedServer(t, http.StatusBadGateway, "")
	_, err := NewFetcher(bad.Client()).Fetch(context.Background(), bad.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=502")

	junk := feedServer(t, http.StatusOK, "not a feed")
	_, err = NewFetcher(junk.Client()).Fetch(context.Background(), junk.URL)
	assert.Error(t, err)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "", PlainText("  "))
	assert.Equal(t, "a b", PlainText("<p>a</p>\n<p>b</p>"))
	assert.Equal(t, "x", PlainText("<style>p{}</style>x"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "健康", truncate("健康", 2))
	assert.Equal(t, "健康…", truncate("健康生活", 2))
}

type stubSource map[string][]domain.NewsItem

func (s stubSource) Fetch(_ context.Context, u string) ([]domain.NewsItem, error) {
	items, ok := s[u]
	if !ok {
		return nil, errors.New("unreachable")
	}
	return items, nil
}

type stubNews struct {
	inserted  []domain.NewsItem
	purges    int
	purgeErr  error
	insertErr error
}

func (s *stubNews) Latest(context.Context, int) domain.Result[[]domain.NewsItem] {
	return domain.SliceResult(s.inserted)
}

func (s *stubNews) Insert(_ context.Context, items []domain.NewsItem) (int, error) {
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	s.inserted = append(s.inserted, items...)
	return len(items), nil
}

func (s *stubNews) PurgeDuplicates(context.Context) (int, error) {
	s.purges++
	return 1, s.purgeErr
}

func TestIngester_Run(t *testing.T) {
	src := stubSource{
		"a": {{Title: "x", URL: "u1"}, {Title: "y", URL: "u2"}},
		"b": {},
	}
	news := &stubNews{}

	res, err := NewIngester(src, news, nil).Run(context.Background(), []string{"a", "b", "missing"})
	require.NoError(t, err)
	assert.Equal(t, Result{Feeds: 3, Fetched: 2, Inserted: 2, Purged: 1, Failed: []string{"missing"}}, res)
	assert.Len(t, news.inserted, 2)
	assert.Equal(t, 1, news.purges)
}

func TestIngester_AllFail(t *testing.T) {
	news := &stubNews{}
	res, err := NewIngester(stubSource{}, news, nil).Run(context.Background(), []string{"x", "y"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "every feed failed"))
	assert.Equal(t, []string{"x", "y"}, res.Failed)
	assert.Equal(t, 1, news.purges, "purge still runs")
}

func TestIngester_PurgeError(t *testing.T) {
	news := &stubNews{purgeErr: errors.New("db down")}
	_, err := NewIngester(stubSource{"a": {{Title: "x"}}}, news, nil).Run(context.Background(), []string{"a"})
	assert.ErrorContains(t, err, "db down")
}
