package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	mqcontracts "communityhub/contracts/mq"
	"communityhub/internal/model"
	"communityhub/pkg/logger"
	"communityhub/pkg/metrics"
	"communityhub/pkg/outbox"
	"communityhub/pkg/trace"
)

type QueueRepository struct {
	db         *pgxpool.Pool
	outboxRepo *outbox.Repository
	logger     *zap.Logger
}

func NewQueueRepository(db *pgxpool.Pool, logger *zap.Logger) *QueueRepository {
	return &QueueRepository{
		db:         db,
		outboxRepo: outbox.NewRepository(db),
		logger:     logger,
	}
}

// InsertBatch writes all queue rows and a notification.queued outbox event
// in one transaction. All entries in a batch share network and type (they
// come from a single producer call).
func (r *QueueRepository) InsertBatch(ctx context.Context, entries []*model.NotificationQueueEntry) error {
	if len(entries) == 0 {
		return nil
	}

	start := time.Now()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	query := `
        INSERT INTO notification_queue
            (id, recipient_id, network_id, notification_type, subject_line,
             content_preview, related_item_id, metadata, is_sent, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, NOW())
    `
	for _, e := range entries {
		batch.Queue(query,
			e.ID,
			e.RecipientID,
			e.NetworkID,
			string(e.Type),
			e.SubjectLine,
			e.ContentPreview,
			e.RelatedItemID,
			e.Metadata,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range entries {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert queue row: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	first := entries[0]
	payload := mqcontracts.NotificationQueuedPayload{
		NetworkID:     first.NetworkID,
		Type:          string(first.Type),
		Count:         len(entries),
		RelatedItemID: first.RelatedItemID,
		QueuedAt:      time.Now(),
		TraceID:       trace.FromContext(ctx),
	}
	if err := outbox.InsertEventInTx(ctx, tx, r.outboxRepo, "notification_queue", first.RelatedItemID, "notification.queued", payload); err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit queue batch: %w", err)
	}

	metrics.RecordQueueInsertDuration(time.Since(start))
	metrics.IncrementQueued(string(first.Type), len(entries))

	logger.WithTrace(ctx, r.logger).Debug("Queue rows inserted",
		zap.String("network_id", first.NetworkID),
		zap.String("type", string(first.Type)),
		zap.Int("count", len(entries)),
	)
	return nil
}

// List returns one page of history rows joined with recipient name/email,
// plus the total row count for the filter.
func (r *QueueRepository) List(ctx context.Context, networkID string, f model.HistoryFilter) ([]model.NotificationWithRecipient, int, error) {
	where, args := buildHistoryWhere(networkID, f)

	countQuery := `SELECT COUNT(*) FROM notification_queue q ` + where
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count history rows: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := f.Page * limit

	args = append(args, limit, offset)
	listQuery := fmt.Sprintf(`
        SELECT q.id, q.recipient_id, q.network_id, q.notification_type,
               q.subject_line, q.content_preview, q.related_item_id, q.metadata,
               q.is_sent, q.sent_at, q.error_message, q.created_at,
               COALESCE(p.full_name, ''), COALESCE(p.contact_email, '')
        FROM notification_queue q
        LEFT JOIN profiles p ON q.recipient_id = p.id
        %s
        ORDER BY q.created_at DESC
        LIMIT $%d OFFSET $%d
    `, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query history rows: %w", err)
	}
	defer rows.Close()

	notifications := []model.NotificationWithRecipient{}
	for rows.Next() {
		var n model.NotificationWithRecipient
		var notificationType string
		err := rows.Scan(
			&n.ID,
			&n.RecipientID,
			&n.NetworkID,
			&notificationType,
			&n.SubjectLine,
			&n.ContentPreview,
			&n.RelatedItemID,
			&n.Metadata,
			&n.IsSent,
			&n.SentAt,
			&n.ErrorMessage,
			&n.CreatedAt,
			&n.RecipientName,
			&n.RecipientEmail,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan history row: %w", err)
		}
		n.Type = model.NotificationType(notificationType)
		notifications = append(notifications, n)
	}

	return notifications, total, rows.Err()
}

// AllForStats streams the fields the stats aggregator needs for a full
// scan of the network's queue.
func (r *QueueRepository) AllForStats(ctx context.Context, networkID string) ([]model.NotificationQueueEntry, error) {
	query := `
        SELECT notification_type, is_sent, error_message, created_at
        FROM notification_queue
        WHERE network_id = $1
    `

	rows, err := r.db.Query(ctx, query, networkID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats rows: %w", err)
	}
	defer rows.Close()

	entries := []model.NotificationQueueEntry{}
	for rows.Next() {
		var e model.NotificationQueueEntry
		var notificationType string
		if err := rows.Scan(&notificationType, &e.IsSent, &e.ErrorMessage, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		e.Type = model.NotificationType(notificationType)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// DeleteForNetwork clears the network's queue. Admin-initiated; the only
// mutation this service performs on existing rows.
func (r *QueueRepository) DeleteForNetwork(ctx context.Context, networkID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM notification_queue WHERE network_id = $1`, networkID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear queue: %w", err)
	}
	return tag.RowsAffected(), nil
}

// buildHistoryWhere assembles the WHERE clause for List. sentStatus is a
// derived filter over is_sent/error_message; the three predicates
// partition every row.
func buildHistoryWhere(networkID string, f model.HistoryFilter) (string, []any) {
	clauses := []string{"q.network_id = $1"}
	args := []any{networkID}

	next := func() int { return len(args) + 1 }

	if f.Type != nil {
		clauses = append(clauses, fmt.Sprintf("q.notification_type = $%d", next()))
		args = append(args, string(*f.Type))
	}
	if f.RecipientID != nil {
		clauses = append(clauses, fmt.Sprintf("q.recipient_id = $%d", next()))
		args = append(args, *f.RecipientID)
	}
	if f.StartDate != nil {
		clauses = append(clauses, fmt.Sprintf("q.created_at >= $%d", next()))
		args = append(args, *f.StartDate)
	}
	if f.EndDate != nil {
		clauses = append(clauses, fmt.Sprintf("q.created_at <= $%d", next()))
		args = append(args, *f.EndDate)
	}
	if f.SentStatus != nil {
		switch *f.SentStatus {
		case model.StatusSent:
			clauses = append(clauses, "q.is_sent = TRUE")
		case model.StatusPending:
			clauses = append(clauses, "q.is_sent = FALSE AND q.error_message IS NULL")
		case model.StatusFailed:
			clauses = append(clauses, "q.error_message IS NOT NULL")
		}
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}
