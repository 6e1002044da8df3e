package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/pulse/internal/db"
	"github.com/alexanderramin/pulse/internal/domain"
)

const (
	keyNotifTime    = "pref.notif_time"
	keyNotifEnabled = "pref.notif_enabled"
	keyWaterCups    = "pref.water_cups"
	keyTargets      = "pref.nutrition_targets"

	// DefaultNotifTime is the daily reminder time when none is set.
	DefaultNotifTime = "09:00"
)

// NotificationPrefs are stored for a scheduler that lives elsewhere.
type NotificationPrefs struct {
	Enabled bool
	Time    string
}

type PrefsStore struct {
	kv *KV
}

func NewPrefsStore(d db.DBTX) *PrefsStore {
	return &PrefsStore{kv: NewKV(d)}
}

func (s *PrefsStore) Notifications(ctx context.Context) (NotificationPrefs, error) {
	p := NotificationPrefs{Time: DefaultNotifTime}

	v, err := s.kv.Get(ctx, keyNotifTime)
	switch {
	case err == nil:
		p.Time = v
	case !errors.Is(err, ErrNotFound):
		return p, err
	}

	v, err = s.kv.Get(ctx, keyNotifEnabled)
	switch {
	case err == nil:
		p.Enabled, _ = strconv.ParseBool(v)
	case !errors.Is(err, ErrNotFound):
		return p, err
	}
	return p, nil
}

// SetNotifications validates the "HH:mm" time and persists both fields.
func (s *PrefsStore) SetNotifications(ctx context.Context, p NotificationPrefs) error {
	if _, err := time.Parse("15:04", p.Time); err != nil {
		return fmt.Errorf("invalid notification time %q (expected HH:mm)", p.Time)
	}
	if err := s.kv.Put(ctx, keyNotifTime, p.Time); err != nil {
		return err
	}
	return s.kv.Put(ctx, keyNotifEnabled, strconv.FormatBool(p.Enabled))
}

// WaterCups returns today's filled cups, 0 when unset.
func (s *PrefsStore) WaterCups(ctx context.Context) (int, error) {
	v, err := s.kv.Get(ctx, keyWaterCups)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing water cups %q: %w", v, err)
	}
	return n, nil
}

func (s *PrefsStore) SetWaterCups(ctx context.Context, n int) error {
	return s.kv.Put(ctx, keyWaterCups, strconv.Itoa(n))
}

// Targets returns the stored nutrition targets, or domain.DefaultTargets.
func (s *PrefsStore) Targets(ctx context.Context) (domain.NutritionTargets, error) {
	t := domain.DefaultTargets()
	v, err := s.kv.Get(ctx, keyTargets)
	if errors.Is(err, ErrNotFound) {
		return t, nil
	}
	if err != nil {
		return t, err
	}
	if err := json.Unmarshal([]byte(v), &t); err != nil {
		return domain.DefaultTargets(), fmt.Errorf("decoding nutrition targets: %w", err)
	}
	return t, nil
}

func (s *PrefsStore) SetTargets(ctx context.Context, t domain.NutritionTargets) error {
	b, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encoding nutrition targets: %w", err)
	}
	return s.kv.Put(ctx, keyTargets, string(b))
}
