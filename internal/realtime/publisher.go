package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Channel topics per network.
const (
	TopicCRM      = "crm"
	TopicActivity = "activity"
)

// Notifier pushes refresh hints over Redis pub/sub. Subscribers (activity
// feed, CRM table) only use the push to re-fetch; nothing correctness-
// critical rides these messages, so publish failures are logged and
// dropped.
type Notifier struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewNotifier(rdb *redis.Client, logger *zap.Logger) *Notifier {
	return &Notifier{rdb: rdb, logger: logger}
}

type refreshHint struct {
	Topic       string    `json:"topic"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// PublishRefresh tells subscribers on network:<id>:<topic> to re-fetch.
func (n *Notifier) PublishRefresh(ctx context.Context, networkID, topic string) {
	payload, err := json.Marshal(refreshHint{Topic: topic, RefreshedAt: time.Now()})
	if err != nil {
		return
	}

	channel := fmt.Sprintf("network:%s:%s", networkID, topic)
	if err := n.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		n.logger.Warn("Failed to publish refresh hint",
			zap.String("channel", channel),
			zap.Error(err),
		)
	}
}
