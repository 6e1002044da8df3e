// Package baidu calls Baidu speech recognition and dish image
// classification.
package baidu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/alexanderramin/pulse/internal/config"
)

var (
	// ErrNotConfigured indicates the API key or secret is missing.
	ErrNotConfigured = errors.New("baidu api key or secret key is not configured")

	// ErrRecognition indicates Baidu answered with an error code or no result.
	ErrRecognition = errors.New("baidu recognition failed")
)

// Endpoints are the Baidu URLs the client talks to.
type Endpoints struct {
	SpeechToken string
	Speech      string
	VisionToken string
	Dish        string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		SpeechToken: "https://openapi.baidu.com/oauth/2.0/token",
		Speech:      "https://vop.baidu.com/server_api",
		VisionToken: "https://aip.baidubce.com/oauth/2.0/token",
		Dish:        "https://aip.baidubce.com/rest/2.0/image-classify/v2/dish",
	}
}

const (
	// tokenEarlyExpiry refreshes cached tokens a minute before they lapse.
	tokenEarlyExpiry = 60 * time.Second
	requestTimeout   = 30 * time.Second
)

// Client holds one cached client-credentials token per Baidu product.
type Client struct {
	cfg       config.BaiduConfig
	endpoints Endpoints
	http      *http.Client
	speech    oauth2.TokenSource
	vision    oauth2.TokenSource
}

type Option func(*Client)

func WithEndpoints(e Endpoints) Option {
	return func(c *Client) { c.endpoints = e }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(cfg config.BaiduConfig, opts ...Option) *Client {
	c := &Client{
		cfg:       cfg,
		endpoints: DefaultEndpoints(),
		http:      &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.http)
	c.speech = c.tokenSource(ctx, c.endpoints.SpeechToken)
	c.vision = c.tokenSource(ctx, c.endpoints.VisionToken)
	return c
}

func (c *Client) tokenSource(ctx context.Context, tokenURL string) oauth2.TokenSource {
	cc := &clientcredentials.Config{
		ClientID:     c.cfg.APIKey,
		ClientSecret: c.cfg.SecretKey,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	return oauth2.ReuseTokenSourceWithExpiry(nil, cc.TokenSource(ctx), tokenEarlyExpiry)
}

func (c *Client) Configured() bool {
	return strings.TrimSpace(c.cfg.APIKey) != "" && strings.TrimSpace(c.cfg.SecretKey) != ""
}

func (c *Client) token(src oauth2.TokenSource) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	tok, err := src.Token()
	if err != nil {
		return "", fmt.Errorf("fetching baidu token: %w", err)
	}
	return tok.AccessToken, nil
}

func (c *Client) post(ctx context.Context, url, contentType string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling baidu: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading baidu response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("baidu returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding baidu response: %w", err)
	}
	return nil
}
