package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/remote"
)

type TipsBackend interface {
	TipsForDate(ctx context.Context, date string) ([]remote.TipRow, error)
	FirstTip(ctx context.Context) (*remote.TipRow, error)
}

type RemoteTipsRepo struct {
	backend TipsBackend
	now     func() time.Time
}

func NewRemoteTipsRepo(backend TipsBackend) *RemoteTipsRepo {
	return &RemoteTipsRepo{backend: backend, now: time.Now}
}

// Today returns today's tip, else the oldest tip on record. Empty means
// the caller should show domain.FallbackTip.
func (r *RemoteTipsRepo) Today(ctx context.Context) domain.Result[domain.DailyTip] {
	tips, err := r.backend.TipsForDate(ctx, r.now().Format("2006-01-02"))
	if err != nil {
		return domain.Failure[domain.DailyTip](err)
	}
	if len(tips) > 0 {
		return domain.Success(tips[0].Domain())
	}
	first, err := r.backend.FirstTip(ctx)
	if err != nil {
		return domain.Failure[domain.DailyTip](err)
	}
	if first == nil {
		return domain.Result[domain.DailyTip]{Kind: domain.ResultEmpty, Value: domain.DailyTip{Content: domain.FallbackTip}}
	}
	return domain.Success(first.Domain())
}
