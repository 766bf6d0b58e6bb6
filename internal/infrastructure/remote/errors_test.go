package remote

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, Terminal},
		{"numeric out of range", &pgconn.PgError{Code: "22003"}, Terminal},
		{"connection failure", &pgconn.PgError{Code: "08006"}, Retryable},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, Retryable},
		{"too many connections", &pgconn.PgError{Code: "53300"}, Retryable},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, Retryable},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, Retryable},
		{"wrapped constraint", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), Terminal},
		{"deadline", context.DeadlineExceeded, Retryable},
		{"invalid data", gorm.ErrInvalidData, Terminal},
		{"unknown", errors.New("connection refused"), Retryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestWrapKeepsClassAndCause(t *testing.T) {
	cause := &pgconn.PgError{Code: "23505"}
	err := wrap("insert invoice", cause)

	var remoteErr *Error
	assert.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, "insert invoice", remoteErr.Op)
	assert.True(t, IsTerminal(err))
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, wrap("noop", nil))
}
