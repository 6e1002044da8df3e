package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/pulse/internal/db"
	"github.com/alexanderramin/pulse/internal/domain"
)

const keyChatHistory = "chat.history"

// ChatHistoryStore keeps the conversation as one JSON array blob.
type ChatHistoryStore struct {
	kv *KV
}

func NewChatHistoryStore(d db.DBTX) *ChatHistoryStore {
	return &ChatHistoryStore{kv: NewKV(d)}
}

// Load returns the saved messages, or nil when nothing is stored. A
// corrupt blob is reported as an error rather than discarded.
func (s *ChatHistoryStore) Load(ctx context.Context) ([]domain.ChatMessage, error) {
	raw, err := s.kv.Get(ctx, keyChatHistory)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var msgs []domain.ChatMessage
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		return nil, fmt.Errorf("decoding chat history: %w", err)
	}
	return msgs, nil
}

func (s *ChatHistoryStore) Save(ctx context.Context, msgs []domain.ChatMessage) error {
	if len(msgs) == 0 {
		return s.Clear(ctx)
	}
	b, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("encoding chat history: %w", err)
	}
	return s.kv.Put(ctx, keyChatHistory, string(b))
}

func (s *ChatHistoryStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, keyChatHistory)
}
