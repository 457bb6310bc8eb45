package util

import (
	"context"

	"go.uber.org/zap"

	"communityhub/pkg/metrics"
)

// BestEffort runs a side-effecting task and swallows its failure. The
// primary action that triggered the task (posting, commenting) must never
// fail because a notification could not be queued; failures go to the log
// and a counter instead of the caller.
func BestEffort(ctx context.Context, logger *zap.Logger, task string, fn func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			metrics.IncrementSideEffectFailure(task)
			logger.Error("Best-effort task panicked",
				zap.String("task", task),
				zap.Any("panic", r),
			)
		}
	}()

	if err := fn(ctx); err != nil {
		metrics.IncrementSideEffectFailure(task)
		logger.Warn("Best-effort task failed",
			zap.String("task", task),
			zap.Error(err),
		)
	}
}
