package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type emptyError struct{}

func (emptyError) Error() string { return "" }

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "network", err: NewNetworkError("http://users", context.DeadlineExceeded), want: MsgNetworkFailure},
		{name: "wrapped network", err: fmt.Errorf("failed to list users: %w", NewNetworkError("http://users", nil)), want: MsgNetworkFailure},
		{name: "bad status", err: NewBadStatusError("http://users", 503), want: "Failed to fetch users."},
		{name: "malformed", err: NewMalformedPayloadError("record 0: name is required", nil), want: "Invalid user data: record 0: name is required"},
		{name: "other", err: errors.New("boom"), want: "boom"},
		{name: "empty message", err: emptyError{}, want: MsgUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	err := NewNetworkError("http://users", context.Canceled)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "http://users")
}

func TestBadStatusError_Error(t *testing.T) {
	err := NewBadStatusError("http://users", 404)

	assert.Equal(t, "http://users responded with status 404", err.Error())
}
