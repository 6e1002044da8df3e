package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/logging"
	"github.com/alexanderramin/pulse/internal/remote"
)

type ImportsBackend interface {
	UserResolver
	InsertHeartRates(ctx context.Context, rows []remote.HeartRateRow) (int, error)
	InsertSteps(ctx context.Context, rows []remote.StepsRow) (int, error)
	InsertWeights(ctx context.Context, rows []remote.WeightRow) (int, error)
	InsertWater(ctx context.Context, rows []remote.WaterRow) (int, error)
	InsertSleep(ctx context.Context, rows []remote.SleepRow) (int, error)
	InsertMoods(ctx context.Context, rows []remote.MoodRow) (int, error)
	CreateImportJob(ctx context.Context, job remote.ImportJob) (remote.ImportJob, error)
}

// RemoteImportsRepo writes parsed import files to the backend.
type RemoteImportsRepo struct {
	backend ImportsBackend
	log     logging.Logger
}

func NewRemoteImportsRepo(backend ImportsBackend, log logging.Logger) *RemoteImportsRepo {
	if log == nil {
		log = logging.Nop()
	}
	return &RemoteImportsRepo{backend: backend, log: log}
}

// SaveRecords writes every populated field of every record to its table.
// A failing table does not stop the others; failures are joined into the
// returned error alongside the partial counts.
func (r *RemoteImportsRepo) SaveRecords(ctx context.Context, records []domain.ImportedRecord) (domain.SaveResult, error) {
	var res domain.SaveResult
	uid, err := r.backend.CurrentUserID(ctx)
	if err != nil {
		return res, fmt.Errorf("saving imported records: %w", err)
	}

	var errs []error
	save := func(t domain.ImportType, dst *int) {
		n, err := r.saveType(ctx, uid, t, records)
		*dst = n
		if err != nil {
			r.log.Warnf("import %s failed: %v", t, err)
			errs = append(errs, fmt.Errorf("%s: %w", t, err))
		}
	}
	save(domain.ImportSteps, &res.Steps)
	save(domain.ImportHeartRate, &res.HeartRate)
	save(domain.ImportSleep, &res.Sleep)
	save(domain.ImportWeight, &res.Weight)
	save(domain.ImportWater, &res.Water)
	save(domain.ImportMood, &res.Mood)

	return res, errors.Join(errs...)
}

// SaveByType writes only the fields belonging to t.
func (r *RemoteImportsRepo) SaveByType(ctx context.Context, t domain.ImportType, records []domain.ImportedRecord) (int, error) {
	uid, err := r.backend.CurrentUserID(ctx)
	if err != nil {
		return 0, fmt.Errorf("saving imported %s: %w", t, err)
	}
	return r.saveType(ctx, uid, t, records)
}

// CreateJob records the upload and returns the backend job id.
func (r *RemoteImportsRepo) CreateJob(ctx context.Context, filename, source string, rows int) (int64, error) {
	uid, err := r.backend.CurrentUserID(ctx)
	if err != nil {
		return 0, fmt.Errorf("creating import job: %w", err)
	}
	job, err := r.backend.CreateImportJob(ctx, remote.ImportJob{
		UserID: uid, Filename: filename, Source: source, RowsCount: rows,
	})
	if err != nil {
		return 0, err
	}
	return job.ID, nil
}

func (r *RemoteImportsRepo) saveType(ctx context.Context, uid string, t domain.ImportType, records []domain.ImportedRecord) (int, error) {
	switch t {
	case domain.ImportSteps:
		var rows []remote.StepsRow
		for _, rec := range records {
			if rec.Steps != nil {
				rows = append(rows, remote.StepsRow{UserID: uid, At: rec.Date, Count: *rec.Steps})
			}
		}
		return r.backend.InsertSteps(ctx, rows)
	case domain.ImportHeartRate:
		var rows []remote.HeartRateRow
		for _, rec := range records {
			if rec.HeartRate != nil {
				rows = append(rows, remote.HeartRateRow{UserID: uid, At: rec.Date, BPM: *rec.HeartRate})
			}
		}
		return r.backend.InsertHeartRates(ctx, rows)
	case domain.ImportSleep:
		var rows []remote.SleepRow
		for _, rec := range records {
			if rec.SleepHours != nil {
				rows = append(rows, remote.SleepRow{UserID: uid, At: rec.Date, Hours: *rec.SleepHours})
			}
		}
		return r.backend.InsertSleep(ctx, rows)
	case domain.ImportWeight:
		var rows []remote.WeightRow
		for _, rec := range records {
			if rec.WeightKg != nil {
				rows = append(rows, remote.WeightRow{UserID: uid, At: rec.Date, Kg: *rec.WeightKg})
			}
		}
		return r.backend.InsertWeights(ctx, rows)
	case domain.ImportWater:
		var rows []remote.WaterRow
		for _, rec := range records {
			if rec.WaterMl != nil {
				rows = append(rows, remote.WaterRow{UserID: uid, At: rec.Date, Ml: *rec.WaterMl})
			}
		}
		return r.backend.InsertWater(ctx, rows)
	case domain.ImportMood:
		var rows []remote.MoodRow
		for _, rec := range records {
			if rec.Mood == "" {
				continue
			}
			row := remote.MoodRow{UserID: uid, At: rec.Date, Mood: rec.Mood, Score: rec.MoodScore}
			if rec.MoodNote != "" {
				note := rec.MoodNote
				row.Note = &note
			}
			rows = append(rows, row)
		}
		return r.backend.InsertMoods(ctx, rows)
	default:
		return 0, fmt.Errorf("unknown import type %q", t)
	}
}
