package util

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestBestEffortRunsTask(t *testing.T) {
	ran := false
	BestEffort(context.Background(), zap.NewNop(), "test_task", func(ctx context.Context) error {
		ran = true
		return nil
	})
	if !ran {
		t.Fatal("expected task to run")
	}
}

func TestBestEffortSwallowsError(t *testing.T) {
	BestEffort(context.Background(), zap.NewNop(), "test_task", func(ctx context.Context) error {
		return errors.New("queue unavailable")
	})
	// Reaching this line is the assertion: no panic, no propagated error.
}

func TestBestEffortRecoversPanic(t *testing.T) {
	BestEffort(context.Background(), zap.NewNop(), "test_task", func(ctx context.Context) error {
		panic("nil map write")
	})
}

func TestBestEffortPassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")

	BestEffort(ctx, zap.NewNop(), "test_task", func(got context.Context) error {
		if got.Value(key{}) != "v" {
			t.Error("expected the caller's context to reach the task")
		}
		return nil
	})
}
