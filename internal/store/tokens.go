package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/pulse/internal/db"
	"github.com/alexanderramin/pulse/internal/domain"
)

const (
	keyAccessToken  = "auth.access_token"
	keyRefreshToken = "auth.refresh_token"
	keyExpiresAt    = "auth.expires_at"
)

// TokenStore persists the auth session between runs.
type TokenStore struct {
	kv *KV
}

func NewTokenStore(d db.DBTX) *TokenStore {
	return &TokenStore{kv: NewKV(d)}
}

// Save writes all three fields. Empty fields remove their key.
func (s *TokenStore) Save(ctx context.Context, sess domain.AuthSession) error {
	expires := ""
	if !sess.ExpiresAt.IsZero() {
		expires = strconv.FormatInt(sess.ExpiresAt.UnixMilli(), 10)
	}
	for key, val := range map[string]string{
		keyAccessToken:  sess.AccessToken,
		keyRefreshToken: sess.RefreshToken,
		keyExpiresAt:    expires,
	} {
		if err := s.kv.Put(ctx, key, val); err != nil {
			return fmt.Errorf("saving auth session: %w", err)
		}
	}
	return nil
}

// Load returns the stored session. Missing keys yield zero fields.
func (s *TokenStore) Load(ctx context.Context) (domain.AuthSession, error) {
	var sess domain.AuthSession
	var err error
	if sess.AccessToken, err = s.optional(ctx, keyAccessToken); err != nil {
		return sess, err
	}
	if sess.RefreshToken, err = s.optional(ctx, keyRefreshToken); err != nil {
		return sess, err
	}
	raw, err := s.optional(ctx, keyExpiresAt)
	if err != nil {
		return sess, err
	}
	if ms, perr := strconv.ParseInt(raw, 10, 64); perr == nil && ms > 0 {
		sess.ExpiresAt = time.UnixMilli(ms).UTC()
	}
	return sess, nil
}

func (s *TokenStore) Clear(ctx context.Context) error {
	return s.Save(ctx, domain.AuthSession{})
}

func (s *TokenStore) optional(ctx context.Context, key string) (string, error) {
	v, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}
