package state

import (
	"context"
	"strings"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/google/uuid"
)

type ChatHistory interface {
	Load(ctx context.Context) ([]domain.ChatMessage, error)
	Save(ctx context.Context, msgs []domain.ChatMessage) error
	Clear(ctx context.Context) error
}

type ChatAssistant interface {
	Send(ctx context.Context, history []domain.ChatMessage, input string, onToken func(string)) domain.ChatReply
	Reset()
}

// ChatState owns the visible conversation and keeps it persisted.
type ChatState struct {
	holder
	assistant ChatAssistant
	history   ChatHistory
	messages  []domain.ChatMessage
}

func NewChatState(assistant ChatAssistant, history ChatHistory, opts Options) *ChatState {
	s := &ChatState{assistant: assistant, history: history}
	s.init(opts)
	return s
}

func (s *ChatState) greeting() domain.ChatMessage {
	return domain.ChatMessage{ID: uuid.NewString(), Message: domain.Greeting, Timestamp: s.now()}
}

// Restore loads the saved conversation, starting a new one with the
// greeting when nothing usable is stored.
func (s *ChatState) Restore(ctx context.Context) error {
	return s.run(ctx, "chat.restore", func(ctx context.Context) error {
		msgs, err := s.history.Load(ctx)
		if len(msgs) == 0 {
			msgs = []domain.ChatMessage{s.greeting()}
		}
		s.mu.Lock()
		s.messages = msgs
		s.mu.Unlock()
		return err
	})
}

func (s *ChatState) Messages() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Send appends the user's message and the assistant reply. Provider
// failures arrive as ordinary replies, so only persistence can fail here.
func (s *ChatState) Send(ctx context.Context, input string, onToken func(string)) (domain.ChatReply, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return domain.ChatReply{}, s.reject("请输入内容")
	}
	var reply domain.ChatReply
	err := s.run(ctx, "chat.send", func(ctx context.Context) error {
		history := s.Messages()
		user := domain.ChatMessage{ID: uuid.NewString(), Message: input, IsUser: true, Timestamp: s.now()}
		s.mu.Lock()
		s.messages = append(s.messages, user)
		s.mu.Unlock()

		reply = s.assistant.Send(ctx, history, input, onToken)

		s.mu.Lock()
		s.messages = append(s.messages, domain.ChatMessage{
			ID:        uuid.NewString(),
			Message:   reply.Text,
			Timestamp: s.now(),
		})
		snapshot := make([]domain.ChatMessage, len(s.messages))
		copy(snapshot, s.messages)
		s.mu.Unlock()
		return s.history.Save(ctx, snapshot)
	})
	return reply, err
}

// Clear wipes the stored conversation and the server-side thread.
func (s *ChatState) Clear(ctx context.Context) error {
	return s.run(ctx, "chat.clear", func(ctx context.Context) error {
		s.assistant.Reset()
		s.mu.Lock()
		s.messages = []domain.ChatMessage{s.greeting()}
		s.mu.Unlock()
		return s.history.Clear(ctx)
	})
}
