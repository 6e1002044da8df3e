package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/pulse/internal/config"
)

type completionBody struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature"`
	MaxTokens   *int      `json:"max_tokens"`
}

func completionServer(t *testing.T, status int, reply string, check func(*http.Request, completionBody)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		var body completionBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if check != nil {
			check(r, body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"auth"}}`))
			return
		}
		resp := map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   body.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCompletion_DeepSeekNutritionParams(t *testing.T) {
	srv := completionServer(t, http.StatusOK, "  1. 多吃蔬菜  ", func(r *http.Request, body completionBody) {
		assert.Equal(t, "Bearer ds-key", r.Header.Get("Authorization"))
		assert.Equal(t, "deepseek-chat", body.Model)
		require.NotNil(t, body.Temperature)
		assert.InDelta(t, 0.3, *body.Temperature, 1e-9)
		require.NotNil(t, body.MaxTokens)
		assert.Equal(t, 300, *body.MaxTokens)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "user", body.Messages[1].Role)
	})

	cfg := config.Default().DeepSeek
	cfg.BaseURL = srv.URL
	cfg.APIKey = "ds-key"
	cfg.Temperature = 0.3
	cfg.MaxTokens = 300
	obs := &recordingObserver{}
	c := NewDeepSeekClient(cfg, obs)

	got, err := c.Complete(context.Background(), TaskNutrition, []Message{System("s"), User("u")})
	require.NoError(t, err)
	assert.Equal(t, "1. 多吃蔬菜", got)
	require.Len(t, obs.events, 1)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, ProviderDeepSeek, obs.events[0].Provider)
	assert.Equal(t, "deepseek-chat", obs.events[0].Model)
}

func TestCompletion_SparkRESTUsesPassword(t *testing.T) {
	srv := completionServer(t, http.StatusOK, "好的", func(r *http.Request, body completionBody) {
		assert.Equal(t, "Bearer spark-pass", r.Header.Get("Authorization"))
		assert.Equal(t, "generalv3.5", body.Model)
		assert.Equal(t, "assistant", body.Messages[1].Role)
	})

	cfg := config.Default().Spark
	cfg.RESTURL = srv.URL + "/"
	cfg.Password = "spark-pass"
	c := NewSparkRESTClient(cfg, nil)
	assert.Equal(t, ProviderSpark, c.Provider())

	got, err := c.Complete(context.Background(), TaskChat, []Message{User("a"), Assistant("b"), User("c")})
	require.NoError(t, err)
	assert.Equal(t, "好的", got)
}

func TestCompletion_EmptyReply(t *testing.T) {
	srv := completionServer(t, http.StatusOK, "   ", nil)
	c := NewCompletionClient(ProviderDeepSeek, srv.URL, "k", "m", nil, nil)

	_, err := c.Complete(context.Background(), TaskChat, []Message{User("x")})
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestCompletion_APIError(t *testing.T) {
	srv := completionServer(t, http.StatusUnauthorized, "", nil)
	obs := &recordingObserver{}
	c := NewCompletionClient(ProviderDeepSeek, srv.URL, "k", "m", nil, obs)

	_, err := c.Complete(context.Background(), TaskNutrition, []Message{User("x")})
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusUnauthorized, provErr.Code)
	require.Len(t, obs.events, 1)
	assert.Equal(t, "PROVIDER_ERROR", obs.events[0].ErrorCode)
}

func TestCompletion_MissingKey(t *testing.T) {
	c := NewCompletionClient(ProviderDeepSeek, "http://unused", " ", "m", nil, nil)
	assert.False(t, c.Configured())
	_, err := c.Complete(context.Background(), TaskChat, nil)
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestCompletion_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewCompletionClient(ProviderDeepSeek, base, "k", "m", nil, nil)
	_, err := c.Complete(context.Background(), TaskChat, []Message{User("x")})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLastUser(t *testing.T) {
	assert.Equal(t, "", LastUser(nil))
	assert.Equal(t, "b", LastUser([]Message{User("a"), Assistant("x"), User("b"), Assistant("y")}))
}
