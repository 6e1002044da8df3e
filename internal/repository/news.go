package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/logging"
	"github.com/alexanderramin/pulse/internal/remote"
)

// purgePageSize is the page size used when scanning the news table.
const purgePageSize = 1000

type NewsBackend interface {
	LatestNews(ctx context.Context, limit int) ([]remote.NewsRow, error)
	NewsPage(ctx context.Context, limit, offset int) ([]remote.NewsRow, error)
	InsertNews(ctx context.Context, rows []remote.NewsInsert) (int, error)
	DeleteNews(ctx context.Context, id string) error
}

type RemoteNewsRepo struct {
	backend NewsBackend
	log     logging.Logger
}

func NewRemoteNewsRepo(backend NewsBackend, log logging.Logger) *RemoteNewsRepo {
	if log == nil {
		log = logging.Nop()
	}
	return &RemoteNewsRepo{backend: backend, log: log}
}

// Latest returns news newest first; this feed is displayed as delivered.
func (r *RemoteNewsRepo) Latest(ctx context.Context, limit int) domain.Result[[]domain.NewsItem] {
	rows, err := r.backend.LatestNews(ctx, limit)
	if err != nil {
		return domain.Failure[[]domain.NewsItem](err)
	}
	items := make([]domain.NewsItem, len(rows))
	for i, row := range rows {
		items[i] = row.Domain()
	}
	return domain.SliceResult(items)
}

func (r *RemoteNewsRepo) Insert(ctx context.Context, items []domain.NewsItem) (int, error) {
	rows := make([]remote.NewsInsert, len(items))
	for i, it := range items {
		rows[i] = remote.NewsInsertFrom(it)
	}
	return r.backend.InsertNews(ctx, rows)
}

// PurgeDuplicates deletes all but the earliest-created row of every group
// of duplicate news and returns how many rows were deleted. Deletion
// continues past individual failures; the first failure is returned.
func (r *RemoteNewsRepo) PurgeDuplicates(ctx context.Context) (int, error) {
	all, err := r.scanAll(ctx)
	if err != nil {
		return 0, err
	}

	var victims []string
	for _, group := range groupDuplicates(all) {
		for _, dup := range group[1:] {
			victims = append(victims, dup.ID)
		}
	}

	deleted := 0
	var errs []error
	for _, id := range victims {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := r.backend.DeleteNews(ctx, id); err != nil {
			r.log.Warnf("deleting duplicate news %s: %v", id, err)
			errs = append(errs, fmt.Errorf("deleting news %s: %w", id, err))
			continue
		}
		deleted++
	}
	if len(errs) > 0 {
		return deleted, errs[0]
	}
	r.log.Infof("purged %d duplicate news rows out of %d", deleted, len(all))
	return deleted, nil
}

func (r *RemoteNewsRepo) scanAll(ctx context.Context) ([]domain.NewsItem, error) {
	var all []domain.NewsItem
	for offset := 0; ; offset += purgePageSize {
		page, err := r.backend.NewsPage(ctx, purgePageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("scanning news at offset %d: %w", offset, err)
		}
		for _, row := range page {
			all = append(all, row.Domain())
		}
		if len(page) < purgePageSize {
			return all, nil
		}
	}
}

// groupDuplicates returns groups of two or more rows sharing a DedupKey,
// each sorted oldest first. Group order follows first appearance.
func groupDuplicates(items []domain.NewsItem) [][]domain.NewsItem {
	index := map[string]int{}
	var groups [][]domain.NewsItem
	for _, it := range items {
		key := it.DedupKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], it)
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g) < 2 {
			continue
		}
		sort.SliceStable(g, func(a, b int) bool {
			return createdBefore(g[a].CreatedAt, g[b].CreatedAt)
		})
		out = append(out, g)
	}
	return out
}

func createdBefore(a, b string) bool {
	ta, errA := time.Parse(time.RFC3339Nano, a)
	tb, errB := time.Parse(time.RFC3339Nano, b)
	if errA == nil && errB == nil {
		return ta.Before(tb)
	}
	return a < b
}

