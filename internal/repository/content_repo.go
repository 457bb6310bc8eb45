package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"communityhub/internal/model"
)

// ContentRepository resolves and creates the content entities notifications
// refer to: news, events, portfolio posts, comments, direct messages.
type ContentRepository struct {
	db *pgxpool.Pool
}

func NewContentRepository(db *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) GetNewsItem(ctx context.Context, id string) (*model.NewsItem, error) {
	query := `
        SELECT id, network_id, author_id, title, content, created_at
        FROM network_news
        WHERE id = $1
    `
	var n model.NewsItem
	err := r.db.QueryRow(ctx, query, id).Scan(
		&n.ID, &n.NetworkID, &n.AuthorID, &n.Title, &n.Content, &n.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find news item %s: %w", id, err)
	}
	return &n, nil
}

func (r *ContentRepository) GetEvent(ctx context.Context, id string) (*model.CommunityEvent, error) {
	query := `
        SELECT id, network_id, created_by, title, COALESCE(location, ''), status, starts_at, created_at
        FROM network_events
        WHERE id = $1
    `
	var e model.CommunityEvent
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.NetworkID, &e.CreatedBy, &e.Title, &e.Location, &e.Status, &e.StartsAt, &e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find event %s: %w", id, err)
	}
	return &e, nil
}

func (r *ContentRepository) GetPortfolioItem(ctx context.Context, id string) (*model.PortfolioItem, error) {
	query := `
        SELECT id, network_id, author_id, title, COALESCE(description, ''), created_at
        FROM portfolio_items
        WHERE id = $1
    `
	var p model.PortfolioItem
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.NetworkID, &p.AuthorID, &p.Title, &p.Description, &p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find portfolio item %s: %w", id, err)
	}
	return &p, nil
}

func (r *ContentRepository) CreateNewsItem(ctx context.Context, n *model.NewsItem) error {
	query := `
        INSERT INTO network_news (id, network_id, author_id, title, content, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING created_at
    `
	return r.db.QueryRow(ctx, query, n.ID, n.NetworkID, n.AuthorID, n.Title, n.Content).Scan(&n.CreatedAt)
}

func (r *ContentRepository) CreateEvent(ctx context.Context, e *model.CommunityEvent) error {
	query := `
        INSERT INTO network_events (id, network_id, created_by, title, location, status, starts_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
        RETURNING created_at
    `
	return r.db.QueryRow(ctx, query, e.ID, e.NetworkID, e.CreatedBy, e.Title, e.Location, e.Status, e.StartsAt).Scan(&e.CreatedAt)
}

func (r *ContentRepository) UpdateEventStatus(ctx context.Context, id, status string) error {
	_, err := r.db.Exec(ctx, `UPDATE network_events SET status = $1 WHERE id = $2`, status, id)
	return err
}

func (r *ContentRepository) CreatePortfolioItem(ctx context.Context, p *model.PortfolioItem) error {
	query := `
        INSERT INTO portfolio_items (id, network_id, author_id, title, description, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING created_at
    `
	return r.db.QueryRow(ctx, query, p.ID, p.NetworkID, p.AuthorID, p.Title, p.Description).Scan(&p.CreatedAt)
}

func (r *ContentRepository) CreateComment(ctx context.Context, c *model.Comment) error {
	query := `
        INSERT INTO comments (id, item_type, item_id, author_id, parent_comment_id, content, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        RETURNING created_at
    `
	return r.db.QueryRow(ctx, query, c.ID, c.ItemType, c.ItemID, c.AuthorID, c.ParentCommentID, c.Content).Scan(&c.CreatedAt)
}

func (r *ContentRepository) GetComment(ctx context.Context, id string) (*model.Comment, error) {
	query := `
        SELECT id, item_type, item_id, author_id, parent_comment_id, content, created_at
        FROM comments
        WHERE id = $1
    `
	var c model.Comment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.ItemType, &c.ItemID, &c.AuthorID, &c.ParentCommentID, &c.Content, &c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find comment %s: %w", id, err)
	}
	return &c, nil
}

func (r *ContentRepository) CreateDirectMessage(ctx context.Context, m *model.DirectMessage) error {
	query := `
        INSERT INTO direct_messages (id, network_id, sender_id, recipient_id, content, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING created_at
    `
	return r.db.QueryRow(ctx, query, m.ID, m.NetworkID, m.SenderID, m.RecipientID, m.Content).Scan(&m.CreatedAt)
}
