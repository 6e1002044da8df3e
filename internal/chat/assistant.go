// Package chat assembles the health assistant conversation and routes it
// to a chat provider.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/llm"
	"github.com/alexanderramin/pulse/internal/logging"
	"github.com/alexanderramin/pulse/internal/repository"
)

// HistoryWindow is the number of earlier turns sent with each question.
const HistoryWindow = 10

// ErrorPrefix starts a failure reply whose error carries no provider
// wording of its own.
const ErrorPrefix = "Dify API调用失败："

// Streamer is the primary provider: a streaming app that keeps server-side
// conversation state.
type Streamer interface {
	Configured() bool
	Chat(ctx context.Context, req llm.DifyRequest, onToken func(string)) (llm.DifyResult, error)
}

// Completer is a provider that answers from the message window alone.
type Completer interface {
	Configured() bool
	llm.Completer
}

// Assistant answers health questions. It keeps the provider conversation
// id between calls.
type Assistant struct {
	primary   Streamer
	secondary Completer
	metrics   repository.MetricsRepo
	users     repository.UserResolver
	log       logging.Logger

	mu             sync.Mutex
	conversationID string
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithSecondary answers with c when the primary provider is not
// configured.
func WithSecondary(c Completer) Option {
	return func(a *Assistant) { a.secondary = c }
}

func WithLogger(l logging.Logger) Option {
	return func(a *Assistant) { a.log = l }
}

func NewAssistant(primary Streamer, metrics repository.MetricsRepo, users repository.UserResolver, opts ...Option) *Assistant {
	a := &Assistant{
		primary: primary,
		metrics: metrics,
		users:   users,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Window returns the system prompt, the last HistoryWindow turns of
// history and the new input as provider messages.
func Window(system string, history []domain.ChatMessage, input string) []llm.Message {
	history = takeLast(history, HistoryWindow)
	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.System(system))
	for _, m := range history {
		if m.IsUser {
			msgs = append(msgs, llm.User(m.Message))
		} else {
			msgs = append(msgs, llm.Assistant(m.Message))
		}
	}
	return append(msgs, llm.User(input))
}

// Send answers input given the earlier history. It never fails: provider
// errors come back as reply text with SourceDifyError.
func (a *Assistant) Send(ctx context.Context, history []domain.ChatMessage, input string, onToken func(string)) domain.ChatReply {
	vars := BuildContext(ctx, a.metrics, a.users)

	switch {
	case a.primary != nil && a.primary.Configured():
		return a.sendPrimary(ctx, vars, input, onToken)
	case a.secondary != nil && a.secondary.Configured():
		msgs := Window(SystemPrompt(vars), history, input)
		text, err := a.secondary.Complete(ctx, llm.TaskChat, msgs)
		if err != nil {
			a.log.Warnf("secondary chat provider failed: %v", err)
			return errorReply(err)
		}
		if onToken != nil {
			onToken(text)
		}
		return domain.ChatReply{Text: text, Source: domain.SourceSpark}
	default:
		return domain.ChatReply{Text: Fallback(input, vars), Source: domain.SourceFallback}
	}
}

func (a *Assistant) sendPrimary(ctx context.Context, vars map[string]string, input string, onToken func(string)) domain.ChatReply {
	res, err := a.primary.Chat(ctx, llm.DifyRequest{
		Query:          strings.TrimSpace(input),
		Inputs:         vars,
		ConversationID: a.ConversationID(),
	}, onToken)
	if err != nil {
		a.log.Warnf("chat provider failed: %v", err)
		return errorReply(err)
	}
	if res.ConversationID != "" {
		a.mu.Lock()
		a.conversationID = res.ConversationID
		a.mu.Unlock()
	}
	return domain.ChatReply{Text: res.Answer, Source: domain.SourceDify}
}

// errorReply keeps provider and transport messages as they are; they
// already name the failing call.
func errorReply(err error) domain.ChatReply {
	var provErr *llm.ProviderError
	var transErr *llm.TransportError
	text := ErrorPrefix + err.Error()
	if errors.As(err, &provErr) || errors.As(err, &transErr) {
		text = err.Error()
	}
	return domain.ChatReply{Text: text, Source: domain.SourceDifyError}
}

func (a *Assistant) ConversationID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.conversationID
}

// Reset starts a new provider conversation on the next Send.
func (a *Assistant) Reset() {
	a.mu.Lock()
	a.conversationID = ""
	a.mu.Unlock()
}
