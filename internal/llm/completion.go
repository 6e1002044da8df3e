package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"

	"github.com/alexanderramin/pulse/internal/config"
)

const (
	completionTimeout    = 60 * time.Second
	completionMaxRetries = 1
)

// Completer returns one non-streaming reply for a list of messages.
type Completer interface {
	Complete(ctx context.Context, task TaskType, msgs []Message) (string, error)
}

// CompletionClient talks to any OpenAI-compatible chat completions API.
type CompletionClient struct {
	provider string
	model    string
	apiKey   string
	client   openaigo.Client
	tasks    map[TaskType]TaskConfig
	observer Observer
}

// NewCompletionClient builds a client for baseURL. A nil httpClient uses a
// client with completionTimeout.
func NewCompletionClient(provider, baseURL, apiKey, model string, httpClient *http.Client, observer Observer) *CompletionClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: completionTimeout}
	}
	apiKey = strings.TrimSpace(apiKey)
	return &CompletionClient{
		provider: provider,
		model:    model,
		apiKey:   apiKey,
		client: openaigo.NewClient(
			option.WithBaseURL(strings.TrimRight(strings.TrimSpace(baseURL), "/")),
			option.WithAPIKey(apiKey),
			option.WithHTTPClient(httpClient),
			option.WithMaxRetries(completionMaxRetries),
			option.WithRequestTimeout(completionTimeout),
		),
		tasks:    DefaultTasks(),
		observer: observerOrNoop(observer),
	}
}

// NewDeepSeekClient uses the configured temperature and token limit for
// nutrition advice.
func NewDeepSeekClient(cfg config.DeepSeekConfig, observer Observer) *CompletionClient {
	c := NewCompletionClient(ProviderDeepSeek, cfg.BaseURL, cfg.APIKey, cfg.Model, nil, observer)
	c.tasks[TaskNutrition] = TaskConfig{Temperature: cfg.Temperature, MaxTokens: cfg.MaxTokens}
	return c
}

// NewSparkRESTClient authenticates with the Spark HTTP API password.
func NewSparkRESTClient(cfg config.SparkConfig, observer Observer) *CompletionClient {
	return NewCompletionClient(ProviderSpark, cfg.RESTURL, cfg.Password, cfg.Model, nil, observer)
}

func (c *CompletionClient) Configured() bool { return c.apiKey != "" }

func (c *CompletionClient) Provider() string { return c.provider }

func (c *CompletionClient) Complete(ctx context.Context, task TaskType, msgs []Message) (string, error) {
	if !c.Configured() {
		return "", ErrMissingKey
	}
	start := time.Now()
	text, err := c.complete(ctx, task, msgs)
	event := LLMCallEvent{
		Provider:  c.provider,
		Task:      task,
		Model:     c.model,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if err != nil {
		event.ErrorCode = errorCode(err)
	}
	c.observer.OnCallComplete(event)
	return text, err
}

func (c *CompletionClient) complete(ctx context.Context, task TaskType, msgs []Message) (string, error) {
	params := openaigo.ChatCompletionNewParams{
		Model:    openaigo.ChatModel(c.model),
		Messages: toOpenAI(msgs),
	}
	if tc, ok := c.tasks[task]; ok {
		params.Temperature = param.NewOpt(tc.Temperature)
		if tc.MaxTokens > 0 {
			params.MaxTokens = param.NewOpt(int64(tc.MaxTokens))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classify(ctx, c.provider, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

func toOpenAI(msgs []Message) []openaigo.ChatCompletionMessageParamUnion {
	out := make([]openaigo.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case "system":
			out = append(out, openaigo.SystemMessage(m.Content))
		case "assistant":
			out = append(out, openaigo.AssistantMessage(m.Content))
		default:
			out = append(out, openaigo.UserMessage(m.Content))
		}
	}
	return out
}

// classify maps transport failures onto the package sentinels.
func classify(ctx context.Context, provider string, err error) error {
	var apiErr *openaigo.Error
	switch {
	case errors.As(err, &apiErr):
		return &ProviderError{Provider: provider, Code: apiErr.StatusCode, Message: err.Error()}
	case ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case isConnectionError(err):
		return ErrUnavailable
	default:
		return &TransportError{Provider: provider, Err: err}
	}
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	var provErr *ProviderError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrMissingKey):
		return "MISSING_KEY"
	case errors.Is(err, ErrEmptyReply):
		return "EMPTY_REPLY"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.As(err, &provErr):
		return "PROVIDER_ERROR"
	default:
		return "UNKNOWN"
	}
}
