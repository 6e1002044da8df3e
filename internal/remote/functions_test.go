package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexanderramin/pulse/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_HealthAggregates(t *testing.T) {
	c, fb := newTestClient(t)
	uid := fb.AddUser("a@example.com", "pw", "")
	signIn(t, c, "a@example.com", "pw")
	fb.Seed(TableSteps, testutil.Row{"user_id": uid, "at": "a", "count": float64(3000)}, testutil.Row{"user_id": uid, "at": "b", "count": float64(5000)})
	fb.Seed(TableSleep, testutil.Row{"user_id": uid, "at": "a", "hours": 7.0}, testutil.Row{"user_id": uid, "at": "b", "hours": 8.0})

	agg, err := c.HealthAggregates(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, agg.RangeDays)
	assert.Equal(t, 8000, agg.StepsTotal)
	assert.InDelta(t, 7.5, agg.SleepAvg, 0.001)
}

func TestClient_RecognizeFood_ArrayAndString(t *testing.T) {
	c, fb := newTestClient(t)
	ctx := context.Background()

	fb.FoodResponse = testutil.Row{"foods": []string{"米饭", "西兰花"}, "calories": 420, "proteinG": 18}
	res, err := c.RecognizeFood(ctx, "aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, []string{"米饭", "西兰花"}, res.Foods)
	require.NotNil(t, res.Calories)
	assert.Equal(t, 420.0, *res.Calories)
	assert.Nil(t, res.FatG)

	fb.FoodResponse = testutil.Row{"foods": "苹果"}
	res, err = c.RecognizeFood(ctx, "aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, []string{"苹果"}, res.Foods)
}

func TestWebhook_Trigger(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer rpa-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, "rpa-token", time.Second)
	require.NoError(t, wh.Trigger(context.Background(), "import_done", map[string]int{"rows": 3}))
	assert.Equal(t, "import_done", got["workflow"])
}

func TestWebhook_FailureStatusAndDisabled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	assert.Error(t, NewWebhook(srv.URL, "", time.Second).Trigger(context.Background(), "x", nil))
	assert.ErrorIs(t, NewWebhook("", "", time.Second).Trigger(context.Background(), "x", nil), ErrWebhookDisabled)
}
