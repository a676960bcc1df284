package repository

import (
	"context"

	"medvault/internal/model"
)

// DocumentFilter holds optional substring filters for document search. A nil
// field means the attribute is unconstrained.
type DocumentFilter struct {
	PatientName *string
	Category    *string
}

// MetadataPatch holds optional replacement values for a document's editable
// metadata. Nil fields keep their prior value.
type MetadataPatch struct {
	Category    *string
	PatientName *string
}

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here — strictly persistence operations. Every method takes
// a Querier so the caller decides whether it runs on the pool or inside a
// transaction.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, q Querier, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, q Querier, id string) (*model.Document, error)

	// FindByIDForUpdate is FindByID with a row lock, serializing concurrent
	// writers of the same document for the duration of the transaction.
	FindByIDForUpdate(ctx context.Context, q Querier, id string) (*model.Document, error)

	// Search returns documents matching the filter with case-insensitive
	// substring semantics. An empty filter returns all documents. Order is
	// stable across repeated calls of the same query.
	Search(ctx context.Context, q Querier, f DocumentFilter) ([]model.Document, error)

	// UpdateMetadata applies a partial metadata update and refreshes
	// updated_at. Returns sql.ErrNoRows if the document does not exist.
	UpdateMetadata(ctx context.Context, q Querier, id string, patch MetadataPatch) (*model.Document, error)

	// UpdateFilePath moves the document's current content pointer and
	// refreshes updated_at. Returns sql.ErrNoRows if the document does not exist.
	UpdateFilePath(ctx context.Context, q Querier, id, filePath string) (*model.Document, error)

	// Delete removes a document row. Child version and notification rows are
	// removed explicitly by the caller, in the same transaction, before this.
	Delete(ctx context.Context, q Querier, id string) error
}
