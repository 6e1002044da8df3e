package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/pulse/internal/domain"
)

// ValidRanges are the aggregation windows the backend supports.
var ValidRanges = []int{7, 14, 30}

type AggregatesBackend interface {
	HealthAggregates(ctx context.Context, rangeDays int) (domain.Aggregates, error)
}

type RemoteAggregatesRepo struct {
	backend AggregatesBackend
}

func NewRemoteAggregatesRepo(backend AggregatesBackend) *RemoteAggregatesRepo {
	return &RemoteAggregatesRepo{backend: backend}
}

func (r *RemoteAggregatesRepo) Get(ctx context.Context, rangeDays int) domain.Result[domain.Aggregates] {
	if !validRange(rangeDays) {
		return domain.Failure[domain.Aggregates](fmt.Errorf("unsupported range %d days (use 7, 14 or 30)", rangeDays))
	}
	agg, err := r.backend.HealthAggregates(ctx, rangeDays)
	if err != nil {
		return domain.Failure[domain.Aggregates](err)
	}
	if agg.StepsTotal == 0 && agg.WaterTotal == 0 && agg.SleepAvg == 0 {
		return domain.Result[domain.Aggregates]{Kind: domain.ResultEmpty, Value: agg}
	}
	return domain.Success(agg)
}

func validRange(days int) bool {
	for _, d := range ValidRanges {
		if d == days {
			return true
		}
	}
	return false
}
