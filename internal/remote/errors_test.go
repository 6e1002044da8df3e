package remote

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapAuthError(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Invalid grant", MsgBadCredentials},
		{"invalid_grant: Invalid login credentials", MsgBadCredentials},
		{"INVALID LOGIN credentials", MsgBadCredentials},
		{"User with this email already exists", MsgEmailExists},
		{"Email address exists", MsgEmailExists},
		{"Email rate limit exceeded", MsgRateLimited},
		{"For security purposes, you can only request this once every 60 seconds", MsgRateLimited},
		{"network unreachable", "network unreachable"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MapAuthError(tt.in))
		})
	}
}

func TestMapAuthError_Idempotent(t *testing.T) {
	for _, msg := range []string{MsgBadCredentials, MsgEmailExists, MsgRateLimited} {
		assert.Equal(t, msg, MapAuthError(msg))
	}
}

func TestAPIError_UnwrapsUnauthorized(t *testing.T) {
	err := fmt.Errorf("selecting steps: %w", &APIError{Status: 401, Message: "JWT expired"})
	assert.True(t, errors.Is(err, ErrUnauthorized))

	err = &APIError{Status: 500}
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "backend returned 500", err.Error())
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	err := fmt.Errorf("logging in: %w", &APIError{Status: 400, Message: "Invalid login credentials"})
	assert.Equal(t, MsgBadCredentials, UserMessage(err))
}
