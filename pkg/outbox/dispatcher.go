package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"communityhub/pkg/mq"
	"communityhub/pkg/trace"
	"communityhub/pkg/util"
)

// Dispatcher drains pending outbox events to the message broker.
type Dispatcher struct {
	repo       *Repository
	publisher  *mq.Publisher
	logger     *zap.Logger
	maxRetries int
	interval   time.Duration
	batchSize  int
}

func NewDispatcher(
	repo *Repository,
	publisher *mq.Publisher,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		repo:       repo,
		publisher:  publisher,
		logger:     logger,
		maxRetries: 5,
		interval:   1 * time.Second,
		batchSize:  100,
	}
}

func (d *Dispatcher) WithMaxRetries(maxRetries int) *Dispatcher {
	d.maxRetries = maxRetries
	return d
}

func (d *Dispatcher) WithInterval(interval time.Duration) *Dispatcher {
	d.interval = interval
	return d
}

func (d *Dispatcher) WithBatchSize(batchSize int) *Dispatcher {
	d.batchSize = batchSize
	return d
}

// Start runs the drain loop until the context is cancelled. Call in a goroutine.
func (d *Dispatcher) Start(ctx context.Context) {
	d.logger.Info("Starting outbox dispatcher",
		zap.Int("max_retries", d.maxRetries),
		zap.Duration("interval", d.interval),
		zap.Int("batch_size", d.batchSize),
	)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Outbox dispatcher stopped")
			return
		case <-ticker.C:
			d.processPendingEvents(ctx)
		}
	}
}

func (d *Dispatcher) processPendingEvents(ctx context.Context) {
	events, err := d.repo.GetPendingEvents(ctx, d.batchSize)
	if err != nil {
		d.logger.Error("Failed to get pending events", zap.Error(err))
		return
	}

	if len(events) == 0 {
		return
	}

	d.logger.Debug("Processing pending events", zap.Int("count", len(events)))

	for _, event := range events {
		if err := d.publishEvent(ctx, event); err != nil {
			budget, errType := d.retryBudget(err)
			d.logger.Error("Failed to publish event",
				zap.Int64("event_id", event.ID),
				zap.String("routing_key", event.RoutingKey),
				zap.String("error_type", errType),
				zap.Int("retry_budget", budget),
				zap.Error(err),
			)

			if err := d.repo.MarkAsFailed(ctx, event.ID, budget); err != nil {
				d.logger.Error("Failed to mark event as failed",
					zap.Int64("event_id", event.ID),
					zap.Error(err),
				)
			}
			continue
		}

		if err := d.repo.MarkAsSent(ctx, event.ID); err != nil {
			d.logger.Error("Failed to mark event as sent",
				zap.Int64("event_id", event.ID),
				zap.Error(err),
			)
		} else {
			d.logger.Debug("Event published successfully",
				zap.Int64("event_id", event.ID),
				zap.String("routing_key", event.RoutingKey),
			)
		}
	}
}

// retryBudget classifies a publish error. Non-retryable errors (malformed
// payloads, duplicates) get a zero budget so MarkAsFailed parks the event
// immediately instead of scheduling pointless retries.
func (d *Dispatcher) retryBudget(err error) (int, string) {
	retryable, errType := util.IsRetryableError(err)
	if !retryable {
		return 0, errType
	}
	return d.maxRetries, errType
}

func (d *Dispatcher) publishEvent(ctx context.Context, event *Event) error {
	var payload interface{}
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	ctx = extractTraceIDFromPayload(ctx, event.Payload)

	if err := d.publisher.PublishWithContext(ctx, event.RoutingKey, payload); err != nil {
		return fmt.Errorf("failed to publish to MQ: %w", err)
	}

	return nil
}

// extractTraceIDFromPayload carries a trace_id embedded in the payload into
// the context so the publish is correlated with the originating request.
func extractTraceIDFromPayload(ctx context.Context, payload json.RawMessage) context.Context {
	var payloadMap map[string]interface{}
	if err := json.Unmarshal(payload, &payloadMap); err != nil {
		return ctx
	}

	if traceID, ok := payloadMap["trace_id"].(string); ok && traceID != "" {
		ctx = trace.WithContext(ctx, traceID)
	}

	return ctx
}
