// Package notifications provides a PostgreSQL-backed repository for durable
// per-user notifications. All mutations are scoped by the owning user id;
// ownership is enforced here, not by callers.
package notifications

import (
	"context"
	"fmt"

	"github.com/wealthboard/wealthboard/internal/dbx"
	"github.com/wealthboard/wealthboard/internal/server/models"
)

// PostgresRepository implements notification storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert creates a notification row and returns its DB-generated id.
func (r *PostgresRepository) Insert(ctx context.Context, n *models.Notification) (string, error) {
	query := `
		INSERT INTO user_notifications (user_id, title, message, kind, action_url, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id string
	err := r.db.QueryRowContext(ctx, query,
		n.UserID, n.Title, n.Message, n.Kind, n.ActionURL, n.ExpiresAt).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

// ListByUser returns userID's notifications, newest first, excluding rows
// whose expiry has passed. When unreadOnly is set, read rows are filtered
// out; when limit > 0 the result is capped.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int, unreadOnly bool) ([]*models.Notification, error) {
	query := `
		SELECT id, user_id, title, message, kind, read, action_url, created_at, expires_at
		FROM user_notifications
		WHERE user_id = $1
		  AND (expires_at IS NULL OR expires_at > now())
	`
	args := []any{userID}
	if unreadOnly {
		query += ` AND read = false`
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Notification
	for rows.Next() {
		var item models.Notification
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Title, &item.Message, &item.Kind,
			&item.Read, &item.ActionURL, &item.CreatedAt, &item.ExpiresAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MarkRead flags a single notification as read. Returns false when no row
// matched (already deleted, or owned by someone else).
func (r *PostgresRepository) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	query := `
		UPDATE user_notifications
		SET read = true
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

// MarkAllRead flags every unread notification of userID as read and returns
// the number of rows mutated.
func (r *PostgresRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	query := `
		UPDATE user_notifications
		SET read = true
		WHERE user_id = $1 AND read = false
	`
	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

// Delete removes a notification owned by userID. Returns false when no row
// matched.
func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	query := `
		DELETE FROM user_notifications
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}
