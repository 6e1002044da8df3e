package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderramin/pulse/internal/config"
	"github.com/alexanderramin/pulse/internal/logging"
)

// authMode controls whether a request carries the bearer token.
type authMode int

const (
	authNone     authMode = iota // apikey only
	authOptional                 // bearer token when signed in
	authRequired                 // fail with ErrNoSession when signed out
)

// Client talks to the hosted backend: auth, REST tables and functions.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
	session *SessionHolder
	log     logging.Logger
	now     func() time.Time
}

// NewClient builds a Client. A nil session gets a memory-only holder and a
// nil logger discards output.
func NewClient(cfg config.BackendConfig, session *SessionHolder, log logging.Logger) *Client {
	if session == nil {
		session = NewSessionHolder(nil)
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		anonKey: cfg.AnonKey,
		http: &http.Client{
			Timeout: cfg.RequestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: cfg.ConnectTimeout,
				}).DialContext,
			},
		},
		session: session,
		log:     log,
		now:     time.Now,
	}
}

// Session exposes the holder so callers can inspect or restore tokens.
func (c *Client) Session() *SessionHolder {
	return c.session
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	prefer  string
	auth    authMode
	retried bool
}

// do sends req and decodes a JSON response into out (when non-nil).
// Authenticated requests that come back 401 are retried once after a
// token refresh.
func (c *Client) do(ctx context.Context, req request, out any) error {
	err := c.send(ctx, req, out)
	if req.auth == authNone || req.retried || !isUnauthorized(err) {
		return err
	}
	if refreshErr := c.refreshSession(ctx); refreshErr != nil {
		return err
	}
	req.retried = true
	return c.send(ctx, req, out)
}

func (c *Client) send(ctx context.Context, req request, out any) error {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("apikey", c.anonKey)
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.prefer != "" {
		httpReq.Header.Set("Prefer", req.prefer)
	}
	if req.auth != authNone {
		tok := c.session.Get().AccessToken
		switch {
		case tok != "":
			httpReq.Header.Set("Authorization", "Bearer "+tok)
		case req.auth == authRequired:
			return ErrNoSession
		}
	}

	start := c.now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()
	c.log.Debugf("backend %s %s -> %d (%s)", req.method, req.path, resp.StatusCode, c.now().Sub(start))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw), Body: string(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", req.method, req.path, err)
	}
	return nil
}

// errorMessage extracts the human-readable part of an error body. The
// backend's services disagree on the field name.
func errorMessage(raw []byte) string {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return strings.TrimSpace(string(raw))
	}
	for _, k := range []string{"error_description", "msg", "message", "error"} {
		if s, ok := body[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
