package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/pulse/internal/config"
)

// DefaultDifyUser identifies requests that carry no user id.
const DefaultDifyUser = "healthapp_user"

// DifyClient talks to a Dify chat application in streaming mode.
type DifyClient struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	observer Observer
}

func NewDifyClient(cfg config.DifyConfig, observer Observer) *DifyClient {
	return &DifyClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		http: &http.Client{
			Timeout: cfg.RequestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: cfg.ConnectTimeout,
				}).DialContext,
			},
		},
		observer: observerOrNoop(observer),
	}
}

// Configured reports whether an API key is set.
func (c *DifyClient) Configured() bool { return c.apiKey != "" }

// DifyRequest is one chat turn. Inputs carries the app's variables.
type DifyRequest struct {
	Query          string
	Inputs         map[string]string
	ConversationID string
}

type DifyResult struct {
	Answer         string
	ConversationID string
}

type difyBody struct {
	Inputs         map[string]string `json:"inputs"`
	Query          string            `json:"query"`
	ResponseMode   string            `json:"response_mode"`
	ConversationID string            `json:"conversation_id,omitempty"`
	User           string            `json:"user"`
}

type difyEvent struct {
	Event          string  `json:"event"`
	Answer         string  `json:"answer"`
	ConversationID *string `json:"conversation_id"`
	Message        string  `json:"message"`
}

// Chat streams an answer, calling onToken (if non-nil) for every chunk.
// The returned conversation id is the last one the stream reported, or
// req.ConversationID when none was.
func (c *DifyClient) Chat(ctx context.Context, req DifyRequest, onToken func(string)) (DifyResult, error) {
	if !c.Configured() {
		return DifyResult{}, ErrMissingKey
	}
	if strings.TrimSpace(req.Query) == "" {
		return DifyResult{}, ErrEmptyQuery
	}

	start := time.Now()
	res, err := c.stream(ctx, req, onToken)
	event := LLMCallEvent{
		Provider:  ProviderDify,
		Task:      TaskChat,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if err != nil {
		event.ErrorCode = errorCode(err)
	}
	c.observer.OnCallComplete(event)
	return res, err
}

func (c *DifyClient) stream(ctx context.Context, req DifyRequest, onToken func(string)) (DifyResult, error) {
	user := req.Inputs["user_id"]
	if user == "" {
		user = DefaultDifyUser
	}
	inputs := req.Inputs
	if inputs == nil {
		inputs = map[string]string{}
	}
	data, err := json.Marshal(difyBody{
		Inputs:         inputs,
		Query:          req.Query,
		ResponseMode:   "streaming",
		ConversationID: req.ConversationID,
		User:           user,
	})
	if err != nil {
		return DifyResult{}, &TransportError{Provider: ProviderDify, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat-messages", bytes.NewReader(data))
	if err != nil {
		return DifyResult{}, &TransportError{Provider: ProviderDify, Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return DifyResult{}, &TransportError{Provider: ProviderDify, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return DifyResult{}, &TransportError{
			Provider: ProviderDify,
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}
	return readDifyStream(resp.Body, req.ConversationID, onToken)
}

// readDifyStream consumes "data: " framed JSON events. Lines that are not
// data frames or fail to decode are skipped.
func readDifyStream(r io.Reader, conversationID string, onToken func(string)) (DifyResult, error) {
	var answer strings.Builder
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		payload, ok := strings.CutPrefix(line, "data: ")
		if !ok || payload == "[DONE]" {
			continue
		}
		var ev difyEvent
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			continue
		}
		switch ev.Event {
		case "message", "agent_message":
			answer.WriteString(ev.Answer)
			if onToken != nil {
				onToken(ev.Answer)
			}
			if ev.ConversationID != nil {
				conversationID = *ev.ConversationID
			}
		case "error":
			return DifyResult{}, &ProviderError{Provider: ProviderDify, Message: ev.Message}
		}
	}
	if err := sc.Err(); err != nil {
		return DifyResult{}, &TransportError{Provider: ProviderDify, Err: err}
	}
	return DifyResult{Answer: answer.String(), ConversationID: conversationID}, nil
}
