package repository

import (
	"context"

	"medvault/internal/model"
)

// VersionRepository defines data access for a document's version history.
// Versions are append-only: there is no update and no single-row delete.
type VersionRepository interface {
	// Create inserts a new version row and returns the stored record.
	Create(ctx context.Context, q Querier, v *model.Version) (*model.Version, error)

	// LatestNumber returns the highest version_number recorded for the
	// document, or 0 when it has no versions. Callers computing the next
	// number must hold a lock on the document row in the same transaction.
	LatestNumber(ctx context.Context, q Querier, documentID string) (int, error)

	// FindByNumber looks a version up by its joint key (document_id,
	// version_number). A version number that exists under a different
	// document yields sql.ErrNoRows.
	FindByNumber(ctx context.Context, q Querier, documentID string, number int) (*model.Version, error)

	// ListByDocument returns the document's versions ordered by
	// version_number descending, newest first.
	ListByDocument(ctx context.Context, q Querier, documentID string) ([]model.Version, error)

	// PathsByDocument returns the storage keys of every version of the
	// document, for blob cleanup on document deletion.
	PathsByDocument(ctx context.Context, q Querier, documentID string) ([]string, error)

	// DeleteByDocument removes all version rows of a document.
	DeleteByDocument(ctx context.Context, q Querier, documentID string) error
}
