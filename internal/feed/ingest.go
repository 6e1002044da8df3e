package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/logging"
	"github.com/alexanderramin/pulse/internal/repository"
)

// Source yields news rows for one feed URL.
type Source interface {
	Fetch(ctx context.Context, feedURL string) ([]domain.NewsItem, error)
}

// Result summarizes one ingestion run.
type Result struct {
	Feeds    int
	Fetched  int
	Inserted int
	Purged   int
	Failed   []string
}

// Ingester fetches every feed, stores the items and removes duplicates.
type Ingester struct {
	source Source
	news   repository.NewsRepo
	log    logging.Logger
}

func NewIngester(source Source, news repository.NewsRepo, log logging.Logger) *Ingester {
	if log == nil {
		log = logging.Nop()
	}
	return &Ingester{source: source, news: news, log: log}
}

// Run ingests feedURLs. A feed that fails to fetch or store is recorded in
// Result.Failed and skipped. The duplicate purge runs once at the end; its
// failure is returned together with the partial result.
func (in *Ingester) Run(ctx context.Context, feedURLs []string) (Result, error) {
	res := Result{Feeds: len(feedURLs)}
	var errs []error
	for _, u := range feedURLs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		items, err := in.source.Fetch(ctx, u)
		if err != nil {
			in.log.Warnf("feed %s: %v", u, err)
			res.Failed = append(res.Failed, u)
			errs = append(errs, err)
			continue
		}
		res.Fetched += len(items)
		if len(items) == 0 {
			continue
		}
		n, err := in.news.Insert(ctx, items)
		res.Inserted += n
		if err != nil {
			in.log.Warnf("storing feed %s: %v", u, err)
			res.Failed = append(res.Failed, u)
			errs = append(errs, err)
		}
	}

	purged, err := in.news.PurgeDuplicates(ctx)
	res.Purged = purged
	if err != nil {
		return res, fmt.Errorf("purging duplicate news: %w", err)
	}
	in.log.Infof("news ingest: %d feeds, %d fetched, %d inserted, %d purged", res.Feeds, res.Fetched, res.Inserted, res.Purged)
	if len(res.Failed) == len(feedURLs) && len(feedURLs) > 0 {
		return res, fmt.Errorf("every feed failed: %w", errors.Join(errs...))
	}
	return res, nil
}
