package state

import (
	"context"
	"testing"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNews struct {
	latest domain.Result[[]domain.NewsItem]
	limit  int
	purged int
}

func (n *stubNews) Latest(_ context.Context, limit int) domain.Result[[]domain.NewsItem] {
	n.limit = limit
	return n.latest
}

func (n *stubNews) Insert(_ context.Context, items []domain.NewsItem) (int, error) {
	return len(items), nil
}

func (n *stubNews) PurgeDuplicates(context.Context) (int, error) { return n.purged, nil }

type stubFeeds struct {
	urls []string
	res  feed.Result
}

func (f *stubFeeds) Run(_ context.Context, urls []string) (feed.Result, error) {
	f.urls = urls
	return f.res, nil
}

func TestNewsState_Load(t *testing.T) {
	news := &stubNews{latest: domain.Success([]domain.NewsItem{{Title: "a"}, {Title: "b"}})}
	s := NewNewsState(news, nil, Options{})

	require.NoError(t, s.Load(context.Background(), 0))
	assert.Equal(t, 20, news.limit)
	assert.Len(t, s.Items(), 2)

	news.latest = domain.Failure[[]domain.NewsItem](errBackend)
	require.ErrorIs(t, s.Load(context.Background(), 5), errBackend)
	assert.Len(t, s.Items(), 2, "stale list kept")
	assert.Equal(t, "backend down", s.LastError())
}

func TestNewsState_PurgeAndIngest(t *testing.T) {
	feeds := &stubFeeds{res: feed.Result{Feeds: 1, Fetched: 3, Inserted: 3, Purged: 1}}
	s := NewNewsState(&stubNews{purged: 2}, feeds, Options{})
	ctx := context.Background()

	n, err := s.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	res, err := s.Ingest(ctx, []string{"https://example.com/rss"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Inserted)
	assert.Equal(t, []string{"https://example.com/rss"}, feeds.urls)

	_, err = s.Ingest(ctx, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}
