package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/pulse/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func difyServer(t *testing.T, handler func(w http.ResponseWriter, body difyBody)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat-messages", r.URL.Path)
		assert.Equal(t, "Bearer dify-key", r.Header.Get("Authorization"))
		var body difyBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		handler(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newDify(url, key string) *DifyClient {
	cfg := config.Default().Dify
	cfg.BaseURL = url + "/"
	cfg.APIKey = key
	cfg.RequestTimeout = 5 * time.Second
	return NewDifyClient(cfg, nil)
}

func TestDify_StreamsAnswer(t *testing.T) {
	srv := difyServer(t, func(w http.ResponseWriter, body difyBody) {
		assert.Equal(t, "streaming", body.ResponseMode)
		assert.Equal(t, "多走路吗", body.Query)
		assert.Equal(t, "u-1", body.User)
		assert.Equal(t, "conv-0", body.ConversationID)
		assert.Equal(t, "8000", body.Inputs["avg_steps_7d"])

		fmt.Fprintln(w, `data: {"event":"message","answer":"建议","conversation_id":"conv-1"}`)
		fmt.Fprintln(w, `event: ping`)
		fmt.Fprintln(w, `data: not json`)
		fmt.Fprintln(w, `data: {"event":"agent_message","answer":"每天快走","conversation_id":"conv-2"}`)
		fmt.Fprintln(w, `data: {"event":"message_end"}`)
		fmt.Fprintln(w, `data: [DONE]`)
	})

	var tokens []string
	res, err := newDify(srv.URL, "dify-key").Chat(context.Background(), DifyRequest{
		Query:          "多走路吗",
		Inputs:         map[string]string{"avg_steps_7d": "8000", "user_id": "u-1"},
		ConversationID: "conv-0",
	}, func(s string) { tokens = append(tokens, s) })

	require.NoError(t, err)
	assert.Equal(t, "建议每天快走", res.Answer)
	assert.Equal(t, "conv-2", res.ConversationID)
	assert.Equal(t, []string{"建议", "每天快走"}, tokens)
}

func TestDify_DefaultUserAndKeptConversation(t *testing.T) {
	srv := difyServer(t, func(w http.ResponseWriter, body difyBody) {
		assert.Equal(t, DefaultDifyUser, body.User)
		assert.Empty(t, body.ConversationID)
		assert.NotNil(t, body.Inputs)
		fmt.Fprintln(w, `data: {"event":"message","answer":"ok"}`)
	})

	res, err := newDify(srv.URL, "dify-key").Chat(context.Background(), DifyRequest{Query: "hi"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Answer)
	assert.Empty(t, res.ConversationID)
}

func TestDify_ErrorEvent(t *testing.T) {
	srv := difyServer(t, func(w http.ResponseWriter, _ difyBody) {
		fmt.Fprintln(w, `data: {"event":"message","answer":"部分"}`)
		fmt.Fprintln(w, `data: {"event":"error","message":"quota exceeded"}`)
	})

	_, err := newDify(srv.URL, "dify-key").Chat(context.Background(), DifyRequest{Query: "hi"}, nil)
	require.Error(t, err)
	assert.Equal(t, "Dify API错误: quota exceeded", err.Error())
}

func TestDify_HTTPFailure(t *testing.T) {
	srv := difyServer(t, func(w http.ResponseWriter, _ difyBody) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	})

	_, err := newDify(srv.URL, "dify-key").Chat(context.Background(), DifyRequest{Query: "hi"}, nil)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "调用Dify API失败："), err.Error())
	assert.Contains(t, err.Error(), "401")
}

func TestDify_Preconditions(t *testing.T) {
	_, err := newDify("http://unused", "").Chat(context.Background(), DifyRequest{Query: "hi"}, nil)
	assert.ErrorIs(t, err, ErrMissingKey)
	assert.Equal(t, "Dify API密钥未配置，请检查设置", err.Error())

	_, err = newDify("http://unused", "dify-key").Chat(context.Background(), DifyRequest{Query: "  "}, nil)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestDify_Cancelled(t *testing.T) {
	release := make(chan struct{})
	srv := difyServer(t, func(w http.ResponseWriter, _ difyBody) {
		fmt.Fprintln(w, `data: {"event":"message","answer":"a"}`)
		w.(http.Flusher).Flush()
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := newDify(srv.URL, "dify-key").Chat(ctx, DifyRequest{Query: "hi"}, nil)
	assert.Error(t, err)
}

type recordingObserver struct{ events []LLMCallEvent }

func (r *recordingObserver) OnCallComplete(e LLMCallEvent) { r.events = append(r.events, e) }

func TestDify_ReportsToObserver(t *testing.T) {
	srv := difyServer(t, func(w http.ResponseWriter, _ difyBody) {
		fmt.Fprintln(w, `data: {"event":"error","message":"x"}`)
	})
	obs := &recordingObserver{}
	c := newDify(srv.URL, "dify-key")
	c.observer = obs

	_, _ = c.Chat(context.Background(), DifyRequest{Query: "hi"}, nil)
	require.Len(t, obs.events, 1)
	assert.Equal(t, ProviderDify, obs.events[0].Provider)
	assert.False(t, obs.events[0].Success)
	assert.Equal(t, "PROVIDER_ERROR", obs.events[0].ErrorCode)
}
