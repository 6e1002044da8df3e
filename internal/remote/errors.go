package remote

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnauthorized indicates the backend rejected the access token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoSession indicates an authenticated call was made while signed out.
	ErrNoSession = errors.New("not signed in")

	// ErrNotFound indicates a lookup matched no rows.
	ErrNotFound = errors.New("not found")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

func (e *APIError) Unwrap() error {
	if e.Status == 401 {
		return ErrUnauthorized
	}
	return nil
}

// User-facing messages for common auth failures.
const (
	MsgBadCredentials = "账号或密码不正确"
	MsgEmailExists    = "邮箱已存在"
	MsgRateLimited    = "请求过于频繁，请稍后再试"
)

// MapAuthError turns a raw auth failure message into a user-facing one.
// Unrecognized messages are returned unchanged.
func MapAuthError(msg string) string {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "invalid grant"), strings.Contains(lower, "invalid_grant"),
		strings.Contains(lower, "invalid login"):
		return MsgBadCredentials
	case strings.Contains(lower, "email") && strings.Contains(lower, "exists"):
		return MsgEmailExists
	case strings.Contains(lower, "rate limit"), strings.Contains(lower, "only request this once"):
		return MsgRateLimited
	default:
		return msg
	}
}

// UserMessage flattens err into a string suitable for display, mapping
// auth failures through MapAuthError.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return MapAuthError(apiErr.Message)
	}
	return MapAuthError(err.Error())
}
