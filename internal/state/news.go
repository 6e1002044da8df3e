package state

import (
	"context"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/feed"
	"github.com/alexanderramin/pulse/internal/repository"
)

type FeedRunner interface {
	Run(ctx context.Context, feedURLs []string) (feed.Result, error)
}

type NewsState struct {
	holder
	repo   repository.NewsRepo
	ingest FeedRunner
	items  []domain.NewsItem
}

func NewNewsState(repo repository.NewsRepo, ingest FeedRunner, opts Options) *NewsState {
	s := &NewsState{repo: repo, ingest: ingest}
	s.init(opts)
	return s
}

func (s *NewsState) Items() []domain.NewsItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items
}

// Load fetches the newest items. On failure the previous list stays.
func (s *NewsState) Load(ctx context.Context, limit int) error {
	if limit <= 0 {
		limit = repository.LimitNews
	}
	return s.run(ctx, "news.load", func(ctx context.Context) error {
		res := s.repo.Latest(ctx, limit)
		if !res.OK() {
			return res.Err
		}
		s.mu.Lock()
		s.items = res.Value
		s.mu.Unlock()
		return nil
	})
}

// Purge removes duplicate rows and returns how many were deleted.
func (s *NewsState) Purge(ctx context.Context) (int, error) {
	var n int
	err := s.run(ctx, "news.purge", func(ctx context.Context) error {
		var err error
		n, err = s.repo.PurgeDuplicates(ctx)
		return err
	})
	return n, err
}

// Ingest pulls the given feeds into the news table.
func (s *NewsState) Ingest(ctx context.Context, feedURLs []string) (feed.Result, error) {
	if len(feedURLs) == 0 {
		return feed.Result{}, s.reject("未配置任何订阅源")
	}
	var res feed.Result
	err := s.run(ctx, "news.ingest", func(ctx context.Context) error {
		var err error
		res, err = s.ingest.Run(ctx, feedURLs)
		return err
	})
	return res, err
}
