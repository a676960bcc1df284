package repository

import (
	"context"

	"medvault/internal/model"
)

// NotificationRepository defines data access for the append-only notification
// log scoped to a document.
type NotificationRepository interface {
	// Create inserts a notification row and returns the stored record.
	Create(ctx context.Context, q Querier, n *model.Notification) (*model.Notification, error)

	// ListByDocument returns the document's notifications ordered by
	// created_at descending, most recent first.
	ListByDocument(ctx context.Context, q Querier, documentID string) ([]model.Notification, error)

	// DeleteByDocument removes all notification rows of a document.
	DeleteByDocument(ctx context.Context, q Querier, documentID string) error
}
