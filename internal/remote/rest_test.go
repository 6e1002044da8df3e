package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexanderramin/pulse/internal/config"
	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Select_QueryShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/heart_rates", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "at,bpm", q.Get("select"))
		assert.Equal(t, []string{"at.desc"}, q["order"])
		assert.Equal(t, "20", q.Get("limit"))
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		assert.Empty(t, r.Header.Get("Authorization"), "anonymous when signed out")
		json.NewEncoder(w).Encode([]HeartRateRow{{At: "2024-01-02", BPM: 70}, {At: "2024-01-01", BPM: 65}})
	}))
	defer srv.Close()

	cfg := config.Default().Backend
	cfg.BaseURL = srv.URL + "/"
	cfg.AnonKey = "anon"
	c := NewClient(cfg, nil, nil)

	rows, err := c.HeartRates(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 70, rows[0].BPM)
}

func TestInsert_EmptyIsNoop(t *testing.T) {
	c, fb := newTestClient(t)
	n, err := Insert[StepsRow](context.Background(), c, TableSteps, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, fb.Count("POST /rest/v1/steps"))
}

func TestInsert_RequiresSession(t *testing.T) {
	c, _ := newTestClient(t)
	_, err := Insert(context.Background(), c, TableSteps, []StepsRow{{At: "x", Count: 1}})
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestInsert_CountsEchoedRows(t *testing.T) {
	c, fb := newTestClient(t)
	uid := fb.AddUser("a@example.com", "pw", "")
	signIn(t, c, "a@example.com", "pw")

	n, err := Insert(context.Background(), c, TableSteps, []StepsRow{
		{UserID: uid, At: "2024-01-01 08:00:00", Count: 100},
		{UserID: uid, At: "2024-01-02 08:00:00", Count: 200},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := c.Steps(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 200, rows[0].Count, "newest first")
}

func TestClient_NewsRoundTripAndDelete(t *testing.T) {
	c, fb := newTestClient(t)
	fb.AddUser("a@example.com", "pw", "")
	signIn(t, c, "a@example.com", "pw")
	ctx := context.Background()

	n, err := c.InsertNews(ctx, []NewsInsert{NewsInsertFrom(domain.NewsItem{NewsDate: "2024-01-01", Title: "A", URL: "https://x/a"})})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	page, err := c.NewsPage(ctx, 1000, 0)
	require.NoError(t, err)
	require.Len(t, page, 1)
	item := page[0].Domain()
	assert.Equal(t, "https://x/a", item.URL)
	assert.NotEmpty(t, item.ID)

	require.NoError(t, c.DeleteNews(ctx, item.ID))
	assert.Empty(t, fb.Rows(TableNews))
}

func TestClient_Delete_RequiresFilter(t *testing.T) {
	c, _ := newTestClient(t)
	assert.Error(t, c.Delete(context.Background(), TableNews, nil))
}

func TestFlexID(t *testing.T) {
	var ids []FlexID
	require.NoError(t, json.Unmarshal([]byte(`["abc", 42, null]`), &ids))
	assert.Equal(t, []FlexID{"abc", "42", ""}, ids)
}

func TestClient_Profiles(t *testing.T) {
	c, fb := newTestClient(t)
	uid := fb.AddUser("a@example.com", "pw", "")
	signIn(t, c, "a@example.com", "pw")
	ctx := context.Background()

	_, err := c.GetProfile(ctx, uid)
	assert.ErrorIs(t, err, ErrNotFound)

	p, err := c.UpsertProfile(ctx, domain.Profile{ID: uid, DisplayName: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", p.DisplayName)

	p, err = c.UpsertProfile(ctx, domain.Profile{ID: uid, DisplayName: "Ann", AvatarURL: "https://img/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "https://img/a.png", p.AvatarURL)
	assert.Len(t, fb.Rows(TableProfiles), 1, "merged, not duplicated")
}

func TestClient_Tips(t *testing.T) {
	c, fb := newTestClient(t)
	fb.Seed(TableTips,
		testutil.Row{"id": float64(2), "content": "多喝水", "tip_date": "2024-05-02"},
		testutil.Row{"id": float64(1), "content": "早睡", "tip_date": "2024-05-01"},
	)
	ctx := context.Background()

	tips, err := c.TipsForDate(ctx, "2024-05-02")
	require.NoError(t, err)
	require.Len(t, tips, 1)
	assert.Equal(t, "多喝水", tips[0].Content)

	first, err := c.FirstTip(ctx)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "早睡", first.Content)
}

func TestClient_CreateImportJob(t *testing.T) {
	c, fb := newTestClient(t)
	uid := fb.AddUser("a@example.com", "pw", "")
	signIn(t, c, "a@example.com", "pw")

	job, err := c.CreateImportJob(context.Background(), ImportJob{UserID: uid, Filename: "steps.csv", Source: "csv", RowsCount: 3})
	require.NoError(t, err)
	assert.Positive(t, job.ID)
	assert.Equal(t, "pending", job.Status)
}
