package importer

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/go-playground/validator/v10"
)

// dateLayouts are the timestamp forms accepted in import files.
var dateLayouts = []string{
	"2006-01-02",
	domain.TimeLayout,
	"2006-01-02T15:04:05",
	time.RFC3339,
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("importdate", func(fl validator.FieldLevel) bool {
			_, ok := ParseDate(fl.Field().String())
			return ok
		})
	})
	return validate
}

// ParseDate parses an import timestamp in any accepted layout.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Per-type shapes checked by the validator.
type (
	stepsRow struct {
		Date  string `validate:"required,importdate"`
		Steps *int   `validate:"required,gte=0,lte=200000"`
	}
	heartRateRow struct {
		Date      string `validate:"required,importdate"`
		HeartRate *int   `validate:"required,gte=20,lte=250"`
	}
	sleepRow struct {
		Date       string   `validate:"required,importdate"`
		SleepHours *float64 `validate:"required,gte=0,lte=24"`
	}
	weightRow struct {
		Date     string   `validate:"required,importdate"`
		WeightKg *float64 `validate:"required,gt=0,lte=500"`
	}
	waterRow struct {
		Date    string `validate:"required,importdate"`
		WaterMl *int   `validate:"required,gte=0,lte=20000"`
	}
	moodRow struct {
		Date      string `validate:"required,importdate"`
		Mood      string `validate:"required,max=32"`
		MoodScore *int   `validate:"omitempty,gte=0,lte=10"`
	}
)

func shapeFor(t domain.ImportType, r domain.ImportedRecord) (any, error) {
	switch t {
	case domain.ImportSteps:
		return stepsRow{Date: r.Date, Steps: r.Steps}, nil
	case domain.ImportHeartRate:
		return heartRateRow{Date: r.Date, HeartRate: r.HeartRate}, nil
	case domain.ImportSleep:
		return sleepRow{Date: r.Date, SleepHours: r.SleepHours}, nil
	case domain.ImportWeight:
		return weightRow{Date: r.Date, WeightKg: r.WeightKg}, nil
	case domain.ImportWater:
		return waterRow{Date: r.Date, WaterMl: r.WaterMl}, nil
	case domain.ImportMood:
		return moodRow{Date: r.Date, Mood: r.Mood, MoodScore: r.MoodScore}, nil
	default:
		return nil, fmt.Errorf("unknown import type %q", t)
	}
}

// ValidateRecords splits records into those fit to save and a list of
// per-row errors. Rows are numbered from 1.
func ValidateRecords(t domain.ImportType, records []domain.ImportedRecord) ([]domain.ImportedRecord, []error) {
	v := validatorInstance()
	var (
		valid []domain.ImportedRecord
		errs  []error
	)
	for i, r := range records {
		shape, err := shapeFor(t, r)
		if err != nil {
			return nil, []error{err}
		}
		if err := v.Struct(shape); err != nil {
			errs = append(errs, fmt.Errorf("row %d: %s", i+1, describe(err)))
			continue
		}
		valid = append(valid, r)
	}
	return valid, errs
}

// describe flattens validator output into "field: rule" pairs.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "importdate":
			parts = append(parts, fmt.Sprintf("%s: invalid date %q", fe.Field(), fe.Value()))
		default:
			parts = append(parts, fmt.Sprintf("%s: must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		}
	}
	return strings.Join(parts, "; ")
}
