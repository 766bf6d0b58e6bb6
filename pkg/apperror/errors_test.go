package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type remoteFailure struct {
	terminal bool
}

func (e remoteFailure) Error() string  { return "insert invoice: boom" }
func (e remoteFailure) Terminal() bool { return e.terminal }

func TestGetAppError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"app error passes through", NewNotFoundError("Sale"), http.StatusNotFound},
		{"wrapped app error", fmt.Errorf("load: %w", ErrVersionConflict), http.StatusConflict},
		{"retryable remote failure", fmt.Errorf("create client: %w", remoteFailure{}), http.StatusServiceUnavailable},
		{"terminal remote failure", remoteFailure{terminal: true}, http.StatusConflict},
		{"anything else", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, GetAppError(tt.err).Code)
		})
	}
}

func TestFromRemoteKeepsCause(t *testing.T) {
	appErr := FromRemote(remoteFailure{terminal: true})
	assert.Contains(t, appErr.Message, "rejected")
	assert.Contains(t, appErr.Message, "boom")

	assert.Equal(t, ErrRemoteUnavailable, FromRemote(errors.New("plain")))
}
