package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/remote"
	"github.com/alexanderramin/pulse/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatesRepo(t *testing.T) {
	c, fb, uid := signedInClient(t)
	repo := NewRemoteAggregatesRepo(c)
	ctx := context.Background()

	assert.Equal(t, domain.ResultError, repo.Get(ctx, 10).Kind)
	assert.True(t, repo.Get(ctx, 7).IsEmpty())

	fb.Seed(remote.TableWater, testutil.Row{"user_id": uid, "at": "x", "ml": float64(1500)})
	res := repo.Get(ctx, 14)
	require.Equal(t, domain.ResultSuccess, res.Kind)
	assert.Equal(t, 1500, res.Value.WaterTotal)
}

func TestProfileRepo_CurrentDefaults(t *testing.T) {
	c, _, uid := signedInClient(t)
	repo := NewRemoteProfileRepo(c)

	res := repo.Current(context.Background())
	require.True(t, res.OK())
	assert.Equal(t, uid, res.Value.ID)
	assert.Equal(t, "Ann", res.Value.DisplayName, "falls back to auth metadata")
}

func TestProfileRepo_EnsureKeepsExisting(t *testing.T) {
	c, _, _ := signedInClient(t)
	repo := NewRemoteProfileRepo(c)
	ctx := context.Background()

	p, err := repo.Ensure(ctx, "Annie", "https://img/1.png")
	require.NoError(t, err)
	assert.Equal(t, "Annie", p.DisplayName)

	p, err = repo.Ensure(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Annie", p.DisplayName)
	assert.Equal(t, "https://img/1.png", p.AvatarURL)

	p, err = repo.Ensure(ctx, "", "https://img/2.png")
	require.NoError(t, err)
	assert.Equal(t, "Annie", p.DisplayName)
	assert.Equal(t, "https://img/2.png", p.AvatarURL)
}

type stubProfiles struct {
	user    *remote.AuthUser
	profile domain.Profile
	err     error
}

func (s stubProfiles) GetUser(context.Context) (*remote.AuthUser, error) { return s.user, nil }
func (s stubProfiles) GetProfile(context.Context, string) (domain.Profile, error) {
	return s.profile, s.err
}
func (s stubProfiles) UpsertProfile(_ context.Context, p domain.Profile) (domain.Profile, error) {
	return p, nil
}

func TestProfileRepo_DefaultName(t *testing.T) {
	repo := NewRemoteProfileRepo(stubProfiles{user: &remote.AuthUser{ID: "u"}, err: remote.ErrNotFound})
	res := repo.Current(context.Background())
	require.True(t, res.OK())
	assert.Equal(t, domain.DefaultDisplayName, res.Value.DisplayName)

	repo = NewRemoteProfileRepo(stubProfiles{user: &remote.AuthUser{ID: "u"}, err: errors.New("down")})
	assert.False(t, repo.Current(context.Background()).OK())
}

func TestTipsRepo_Today(t *testing.T) {
	c, fb, _ := signedInClient(t)
	repo := NewRemoteTipsRepo(c)
	repo.now = func() time.Time { return time.Date(2024, 5, 2, 9, 0, 0, 0, time.Local) }
	ctx := context.Background()

	res := repo.Today(ctx)
	assert.True(t, res.IsEmpty())
	assert.Equal(t, domain.FallbackTip, res.Value.Content)

	fb.Seed(remote.TableTips, testutil.Row{"id": float64(1), "content": "早睡", "tip_date": "2024-04-01"})
	assert.Equal(t, "早睡", repo.Today(ctx).Value.Content, "oldest tip when none today")

	fb.Seed(remote.TableTips, testutil.Row{"id": float64(2), "content": "多喝水", "tip_date": "2024-05-02"})
	assert.Equal(t, "多喝水", repo.Today(ctx).Value.Content)
}

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func TestImportsRepo_SaveRecords(t *testing.T) {
	c, fb, uid := signedInClient(t)
	repo := NewRemoteImportsRepo(c, nil)
	records := []domain.ImportedRecord{
		{Date: "2024-01-01", Steps: intp(8000), SleepHours: floatp(7.5), Mood: "平静", MoodScore: intp(3)},
		{Date: "2024-01-02", Steps: intp(6000), HeartRate: intp(72), WeightKg: floatp(60.2), WaterMl: intp(1800)},
	}

	res, err := repo.SaveRecords(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, domain.SaveResult{Steps: 2, HeartRate: 1, Sleep: 1, Weight: 1, Water: 1, Mood: 1}, res)
	assert.Equal(t, 7, res.Total())
	assert.Equal(t, uid, fb.Rows(remote.TableSteps)[0]["user_id"])
}

func TestImportsRepo_SaveRecords_TableFailureTolerated(t *testing.T) {
	c, fb, _ := signedInClient(t)
	fb.FailTable(remote.TableSteps, 1)
	repo := NewRemoteImportsRepo(c, nil)

	res, err := repo.SaveRecords(context.Background(), []domain.ImportedRecord{
		{Date: "2024-01-01", Steps: intp(8000), WaterMl: intp(500)},
	})
	require.Error(t, err)
	assert.Zero(t, res.Steps)
	assert.Equal(t, 1, res.Water, "other tables still written")
}

func TestImportsRepo_SaveByTypeAndJob(t *testing.T) {
	c, _, _ := signedInClient(t)
	repo := NewRemoteImportsRepo(c, nil)
	ctx := context.Background()

	n, err := repo.SaveByType(ctx, domain.ImportHeartRate, []domain.ImportedRecord{
		{Date: "2024-01-01", HeartRate: intp(70)},
		{Date: "2024-01-02"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = repo.SaveByType(ctx, domain.ImportType("calories"), nil)
	assert.Error(t, err)

	id, err := repo.CreateJob(ctx, "hr.csv", "csv", 2)
	require.NoError(t, err)
	assert.Positive(t, id)
}
