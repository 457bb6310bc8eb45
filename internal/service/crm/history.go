package crm

import (
	"context"
	"time"

	"go.uber.org/zap"

	dbcontracts "communityhub/contracts/db"
	mqcontracts "communityhub/contracts/mq"
	"communityhub/internal/model"
	"communityhub/internal/realtime"
	"communityhub/pkg/mq"
)

// HistoryStore is the read/clear surface over the notification queue.
type HistoryStore interface {
	List(ctx context.Context, networkID string, f model.HistoryFilter) ([]model.NotificationWithRecipient, int, error)
	AllForStats(ctx context.Context, networkID string) ([]model.NotificationQueueEntry, error)
	DeleteForNetwork(ctx context.Context, networkID string) (int64, error)
}

// NotificationRecord is one history row as rendered to the admin UI: the
// queue row in its wire shape plus the joined recipient and the derived
// status bucket.
type NotificationRecord struct {
	dbcontracts.NotificationQueueRow
	RecipientName  string `json:"recipient_name"`
	RecipientEmail string `json:"recipient_email"`
	Status         string `json:"status"`
}

// HistoryPage is the reader's response shape. Errors never propagate as
// Go errors past this service: the admin UI renders an empty state off
// the same shape with Error set.
type HistoryPage struct {
	Notifications []NotificationRecord `json:"notifications"`
	TotalCount    int                  `json:"totalCount"`
	Page          int                  `json:"page"`
	Limit         int                  `json:"limit"`
	TotalPages    int                  `json:"totalPages"`
	Error         string               `json:"error,omitempty"`
}

func toRecord(n model.NotificationWithRecipient) NotificationRecord {
	return NotificationRecord{
		NotificationQueueRow: dbcontracts.NotificationQueueRow{
			ID:             n.ID,
			RecipientID:    n.RecipientID,
			NetworkID:      n.NetworkID,
			Type:           string(n.Type),
			SubjectLine:    n.SubjectLine,
			ContentPreview: n.ContentPreview,
			RelatedItemID:  n.RelatedItemID,
			Metadata:       n.Metadata,
			IsSent:         n.IsSent,
			SentAt:         n.SentAt,
			ErrorMessage:   n.ErrorMessage,
			CreatedAt:      n.CreatedAt,
		},
		RecipientName:  n.RecipientName,
		RecipientEmail: n.RecipientEmail,
		Status:         string(n.Status()),
	}
}

// Service is the admin/CRM read model over the queue plus the test-send
// trigger and the admin queue clear.
type Service struct {
	store     HistoryStore
	fn        *FunctionClient
	notifier  *realtime.Notifier
	publisher *mq.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(store HistoryStore, fn *FunctionClient, notifier *realtime.Notifier, publisher *mq.Publisher, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		fn:        fn,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

const defaultPageSize = 20

// FetchHistory returns one filtered page. Page is 0-indexed: page 1 with
// limit 20 covers rows 21-40.
func (s *Service) FetchHistory(ctx context.Context, networkID string, f model.HistoryFilter) HistoryPage {
	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	if f.Page < 0 {
		f.Page = 0
	}

	notifications, total, err := s.store.List(ctx, networkID, f)
	if err != nil {
		s.logger.Error("Failed to fetch notification history",
			zap.String("network_id", networkID),
			zap.Error(err),
		)
		return HistoryPage{
			Notifications: []NotificationRecord{},
			Page:          f.Page,
			Limit:         f.Limit,
			Error:         err.Error(),
		}
	}

	records := make([]NotificationRecord, 0, len(notifications))
	for _, n := range notifications {
		records = append(records, toRecord(n))
	}

	totalPages := (total + f.Limit - 1) / f.Limit

	return HistoryPage{
		Notifications: records,
		TotalCount:    total,
		Page:          f.Page,
		Limit:         f.Limit,
		TotalPages:    totalPages,
	}
}

// ClearQueue deletes the network's queue rows and pushes a refresh hint to
// the CRM table's realtime channel.
func (s *Service) ClearQueue(ctx context.Context, networkID string) (int64, error) {
	deleted, err := s.store.DeleteForNetwork(ctx, networkID)
	if err != nil {
		s.logger.Error("Failed to clear notification queue",
			zap.String("network_id", networkID),
			zap.Error(err),
		)
		return 0, err
	}

	s.logger.Info("Notification queue cleared",
		zap.String("network_id", networkID),
		zap.Int64("deleted", deleted),
	)

	if s.notifier != nil {
		s.notifier.PublishRefresh(ctx, networkID, realtime.TopicCRM)
	}

	if s.publisher != nil {
		payload := mqcontracts.QueueClearedPayload{
			NetworkID: networkID,
			Deleted:   deleted,
			ClearedAt: s.now(),
		}
		if err := s.publisher.PublishWithContext(ctx, "notification.queue_cleared", payload); err != nil {
			s.logger.Warn("Failed to announce queue clear", zap.Error(err))
		}
	}

	return deleted, nil
}
