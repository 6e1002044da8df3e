package llm

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/alexanderramin/pulse/internal/config"
)

// SparkClient chats with iFlytek Spark over its signed WebSocket API.
type SparkClient struct {
	appID     string
	apiKey    string
	apiSecret string
	wsURL     string
	domain    string
	dialer    *websocket.Dialer
	now       func() time.Time
	observer  Observer
}

func NewSparkClient(cfg config.SparkConfig, observer Observer) *SparkClient {
	return &SparkClient{
		appID:     strings.TrimSpace(cfg.AppID),
		apiKey:    strings.TrimSpace(cfg.APIKey),
		apiSecret: strings.TrimSpace(cfg.APISecret),
		wsURL:     cfg.WSURL,
		domain:    cfg.Domain,
		dialer:    websocket.DefaultDialer,
		now:       time.Now,
		observer:  observerOrNoop(observer),
	}
}

func (c *SparkClient) Configured() bool {
	return c.appID != "" && c.apiKey != "" && c.apiSecret != ""
}

// SignedURL returns the connect URL carrying the HMAC-SHA256 authorization
// for the given time.
func (c *SparkClient) SignedURL(at time.Time) (string, error) {
	u, err := url.Parse(c.wsURL)
	if err != nil {
		return "", fmt.Errorf("parsing spark url: %w", err)
	}
	date := at.UTC().Format(http.TimeFormat)
	signature := sign(c.apiSecret, fmt.Sprintf("host: %s\ndate: %s\nGET %s HTTP/1.1", u.Host, date, u.Path))
	authorization := fmt.Sprintf(`api_key="%s", algorithm="hmac-sha256", headers="host date request-line", signature="%s"`,
		c.apiKey, signature)

	u.RawQuery = url.Values{
		"authorization": {base64.StdEncoding.EncodeToString([]byte(authorization))},
		"date":          {date},
		"host":          {u.Host},
	}.Encode()
	return u.String(), nil
}

func sign(secret, s string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(s))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

type sparkRequest struct {
	Header struct {
		AppID string `json:"app_id"`
		UID   string `json:"uid"`
	} `json:"header"`
	Parameter struct {
		Chat struct {
			Domain string `json:"domain"`
		} `json:"chat"`
	} `json:"parameter"`
	Payload struct {
		Message struct {
			Text []Message `json:"text"`
		} `json:"message"`
	} `json:"payload"`
}

type sparkFrame struct {
	Header struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"header"`
	Payload struct {
		Choices struct {
			Text []struct {
				Content string `json:"content"`
			} `json:"text"`
		} `json:"choices"`
	} `json:"payload"`
}

// Complete satisfies Completer. The task is ignored; Spark takes no
// per-request sampling parameters here.
func (c *SparkClient) Complete(ctx context.Context, _ TaskType, msgs []Message) (string, error) {
	return c.Chat(ctx, msgs, nil)
}

// sparkFinalStatus marks the last frame of a reply.
const sparkFinalStatus = 2

// Chat sends msgs and accumulates the streamed reply.
func (c *SparkClient) Chat(ctx context.Context, msgs []Message, onToken func(string)) (string, error) {
	if !c.Configured() {
		return "", ErrMissingKey
	}
	start := time.Now()
	text, err := c.chat(ctx, msgs, onToken)
	event := LLMCallEvent{
		Provider:  ProviderSpark,
		Task:      TaskChat,
		Model:     c.domain,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if err != nil {
		event.ErrorCode = errorCode(err)
	}
	c.observer.OnCallComplete(event)
	return text, err
}

func (c *SparkClient) chat(ctx context.Context, msgs []Message, onToken func(string)) (string, error) {
	signed, err := c.SignedURL(c.now())
	if err != nil {
		return "", err
	}
	conn, _, err := c.dialer.DialContext(ctx, signed, nil)
	if err != nil {
		return "", &TransportError{Provider: ProviderSpark, Err: err}
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	var req sparkRequest
	req.Header.AppID = c.appID
	req.Header.UID = uuid.NewString()
	req.Parameter.Chat.Domain = c.domain
	req.Payload.Message.Text = msgs
	if err := conn.WriteJSON(req); err != nil {
		return "", &TransportError{Provider: ProviderSpark, Err: err}
	}

	var (
		out     strings.Builder
		failure *ProviderError
	)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				break
			}
			return "", &TransportError{Provider: ProviderSpark, Err: err}
		}
		var f sparkFrame
		if err := json.Unmarshal(data, &f); err != nil {
			continue
		}
		if len(f.Payload.Choices.Text) > 0 {
			if chunk := f.Payload.Choices.Text[0].Content; chunk != "" {
				out.WriteString(chunk)
				if onToken != nil {
					onToken(chunk)
				}
			}
		}
		if f.Header.Code != 0 {
			failure = &ProviderError{Provider: ProviderSpark, Code: f.Header.Code, Message: f.Header.Message}
			break
		}
		if f.Header.Status == sparkFinalStatus {
			break
		}
	}

	text := out.String()
	if strings.TrimSpace(text) == "" {
		if failure != nil {
			return "", failure
		}
		return "", ErrEmptyReply
	}
	return text, nil
}
