package postgres

import (
	"context"

	"medvault/internal/model"
	"medvault/internal/repository"
)

// NotificationPostgres is a PostgreSQL implementation of
// repository.NotificationRepository.
type NotificationPostgres struct{}

// NewNotificationPostgres creates a new NotificationPostgres repository.
func NewNotificationPostgres() *NotificationPostgres {
	return &NotificationPostgres{}
}

var _ repository.NotificationRepository = (*NotificationPostgres)(nil)

const notificationColumns = `id, message, document_id, created_at`

// Create inserts a notification row and returns the stored record.
func (r *NotificationPostgres) Create(ctx context.Context, q repository.Querier, n *model.Notification) (*model.Notification, error) {
	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + notificationColumns
	row := q.QueryRowContext(ctx, query, n.ID, n.Message, n.DocumentID, n.CreatedAt)
	var out model.Notification
	if err := row.Scan(&out.ID, &out.Message, &out.DocumentID, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByDocument returns the document's notifications most recent first.
func (r *NotificationPostgres) ListByDocument(ctx context.Context, q repository.Querier, documentID string) ([]model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE document_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := q.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.Message, &n.DocumentID, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteByDocument removes all notification rows of a document.
func (r *NotificationPostgres) DeleteByDocument(ctx context.Context, q repository.Querier, documentID string) error {
	const query = `DELETE FROM notifications WHERE document_id = $1`
	_, err := q.ExecContext(ctx, query, documentID)
	return err
}
