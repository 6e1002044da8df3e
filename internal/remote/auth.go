package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/alexanderramin/pulse/internal/domain"
)

// TokenResponse is returned by the token and signup endpoints. Signup
// with email confirmation enabled returns no access token.
type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	User         *AuthUser `json:"user,omitempty"`
}

// Session converts the response into a session expiring ExpiresIn seconds
// after now.
func (t TokenResponse) Session(now time.Time) domain.AuthSession {
	s := domain.AuthSession{AccessToken: t.AccessToken, RefreshToken: t.RefreshToken}
	if t.ExpiresIn > 0 {
		s.ExpiresAt = now.Add(time.Duration(t.ExpiresIn) * time.Second).UTC()
	}
	return s
}

type AuthUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// DisplayName picks the first non-empty name from the user metadata.
func (u AuthUser) DisplayName() string {
	for _, k := range []string{"display_name", "full_name", "name"} {
		if s, ok := u.UserMetadata[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func (u AuthUser) Domain() domain.User {
	return domain.User{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName()}
}

type credentials struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	var out TokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   credentials{Email: email, Password: password},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	return &out, nil
}

func (c *Client) Signup(ctx context.Context, email, password, displayName string) (*TokenResponse, error) {
	body := credentials{Email: email, Password: password}
	if displayName != "" {
		body.Data = map[string]any{"display_name": displayName}
	}
	var out TokenResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/v1/signup", body: body}, &out); err != nil {
		return nil, fmt.Errorf("signing up: %w", err)
	}
	return &out, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	var out TokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"refresh_token"}},
		body:   map[string]string{"refresh_token": refreshToken},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("refreshing session: %w", err)
	}
	return &out, nil
}

// GetUser returns the user owning the current access token.
func (c *Client) GetUser(ctx context.Context) (*AuthUser, error) {
	var out AuthUser
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/v1/user", auth: authRequired}, &out); err != nil {
		return nil, fmt.Errorf("fetching current user: %w", err)
	}
	return &out, nil
}

// CurrentUserID resolves the signed-in user's id.
func (c *Client) CurrentUserID(ctx context.Context) (string, error) {
	u, err := c.GetUser(ctx)
	if err != nil {
		return "", err
	}
	if u.ID == "" {
		return "", ErrNoSession
	}
	return u.ID, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.send(ctx, request{method: http.MethodPost, path: "/auth/v1/logout", auth: authRequired}, nil)
	if err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

// WithRefresh runs fn and, if it fails with ErrUnauthorized while a
// refresh token is held, refreshes the session and runs fn once more.
func (c *Client) WithRefresh(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if !isUnauthorized(err) {
		return err
	}
	if refreshErr := c.refreshSession(ctx); refreshErr != nil {
		return err
	}
	return fn(ctx)
}

func (c *Client) refreshSession(ctx context.Context) error {
	rt := c.session.Get().RefreshToken
	if rt == "" {
		return ErrNoSession
	}
	tr, err := c.Refresh(ctx, rt)
	if err != nil {
		c.log.Warnf("session refresh failed: %v", err)
		return err
	}
	next := tr.Session(c.now())
	if next.RefreshToken == "" {
		next.RefreshToken = rt
	}
	return c.session.Set(ctx, next)
}

func isUnauthorized(err error) bool {
	return err != nil && errors.Is(err, ErrUnauthorized)
}
