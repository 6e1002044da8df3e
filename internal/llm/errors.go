package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingKey indicates the provider has no credentials configured.
	ErrMissingKey = errors.New("Dify API密钥未配置，请检查设置")

	// ErrEmptyQuery indicates there was no user text to send.
	ErrEmptyQuery = errors.New("无效的查询内容")

	// ErrTimeout indicates the request exceeded its deadline.
	ErrTimeout = errors.New("llm request timed out")

	// ErrUnavailable indicates the provider could not be reached.
	ErrUnavailable = errors.New("llm provider unavailable")

	// ErrEmptyReply indicates the provider answered with no text.
	ErrEmptyReply = errors.New("llm returned an empty reply")

	// ErrInvalidOutput indicates the response could not be parsed into the
	// expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")
)

// ProviderError is an error reported inside a successful response, such as
// a Dify "error" event or a Spark frame with a non-zero code.
type ProviderError struct {
	Provider string
	Code     int
	Message  string
}

func (e *ProviderError) Error() string {
	switch e.Provider {
	case ProviderDify:
		return "Dify API错误: " + e.Message
	case ProviderSpark:
		if e.Message != "" {
			return e.Message
		}
		return fmt.Sprintf("星火WS调用失败(code=%d)", e.Code)
	default:
		return fmt.Sprintf("%s error: %s", e.Provider, e.Message)
	}
}

// TransportError wraps a failure to complete the exchange at all.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	switch e.Provider {
	case ProviderDify:
		return "调用Dify API失败：" + e.Err.Error()
	case ProviderSpark:
		return "星火WS连接失败: " + e.Err.Error()
	default:
		return e.Provider + " request failed: " + e.Err.Error()
	}
}

func (e *TransportError) Unwrap() error { return e.Err }
