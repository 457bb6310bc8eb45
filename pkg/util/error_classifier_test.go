package util

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantRetryable bool
		wantType      string
	}{
		{"nil", nil, false, ""},
		{"no rows", pgx.ErrNoRows, false, "row_not_found"},
		{"duplicate key", errors.New(`duplicate key value violates unique constraint "notification_queue_pkey"`), false, "duplicate_key"},
		{"connection refused", errors.New("connection refused"), true, "db_connection_error"},
		{"deadline", context.DeadlineExceeded, true, "timeout"},
		{"canceled", context.Canceled, false, "context_canceled"},
		{"gateway 5xx", errors.New("functions gateway returned 5xx: 503"), true, "functions_gateway_error"},
		{"gateway unreachable", errors.New("failed to call functions gateway: dial tcp: no route to host"), true, "functions_gateway_unavailable"},
		{"unknown", errors.New("something odd"), false, "unknown_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retryable, errType := IsRetryableError(tt.err)
			if retryable != tt.wantRetryable {
				t.Errorf("retryable = %v, want %v", retryable, tt.wantRetryable)
			}
			if errType != tt.wantType {
				t.Errorf("type = %q, want %q", errType, tt.wantType)
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	if ShouldRetry(3, 5, false) {
		t.Error("non-retryable errors never retry")
	}
	if !ShouldRetry(5, 5, true) {
		t.Error("retry at the budget boundary is allowed")
	}
	if ShouldRetry(6, 5, true) {
		t.Error("retry beyond the budget is not allowed")
	}
}
