package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"medvault/internal/model"
	"medvault/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses parameterized queries against the Querier it is handed and contains
// no business logic.
type DocumentPostgres struct{}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres() *DocumentPostgres {
	return &DocumentPostgres{}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, file_name, document_category, patient_name, file_type, file_path, created_at, updated_at`

func scanDocument(row interface{ Scan(...any) error }) (*model.Document, error) {
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.FileName,
		&d.DocumentCategory,
		&d.PatientName,
		&d.FileType,
		&d.FilePath,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, q repository.Querier, doc *model.Document) (*model.Document, error) {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + documentColumns
	row := q.QueryRowContext(ctx, query,
		doc.ID,
		doc.FileName,
		doc.DocumentCategory,
		doc.PatientName,
		doc.FileType,
		doc.FilePath,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, q repository.Querier, id string) (*model.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(q.QueryRowContext(ctx, query, id))
}

// FindByIDForUpdate fetches a document and locks its row until the enclosing
// transaction ends. Concurrent edits of the same document serialize here.
func (r *DocumentPostgres) FindByIDForUpdate(ctx context.Context, q repository.Querier, id string) (*model.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 FOR UPDATE`
	return scanDocument(q.QueryRowContext(ctx, query, id))
}

// Search returns documents matching case-insensitive substring filters.
// Omitted filter fields are unconstrained; no filters returns all documents.
// Ordering mirrors the list contract: newest first, id as tiebreaker, so the
// same query always yields the same order.
func (r *DocumentPostgres) Search(ctx context.Context, q repository.Querier, f repository.DocumentFilter) ([]model.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents`

	var (
		conds []string
		args  []any
	)
	if f.PatientName != nil {
		args = append(args, *f.PatientName)
		conds = append(conds, fmt.Sprintf("patient_name ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if f.Category != nil {
		args = append(args, *f.Category)
		conds = append(conds, fmt.Sprintf("document_category ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateMetadata applies a partial update; NULL patch values keep the current
// column value. updated_at is always refreshed.
func (r *DocumentPostgres) UpdateMetadata(ctx context.Context, q repository.Querier, id string, patch repository.MetadataPatch) (*model.Document, error) {
	query := `
		UPDATE documents
		SET document_category = COALESCE($2, document_category),
		    patient_name = COALESCE($3, patient_name),
		    updated_at = $4
		WHERE id = $1
		RETURNING ` + documentColumns
	row := q.QueryRowContext(ctx, query, id, patch.Category, patch.PatientName, time.Now().UTC())
	return scanDocument(row)
}

// UpdateFilePath moves the document's current content pointer.
func (r *DocumentPostgres) UpdateFilePath(ctx context.Context, q repository.Querier, id, filePath string) (*model.Document, error) {
	query := `
		UPDATE documents
		SET file_path = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + documentColumns
	row := q.QueryRowContext(ctx, query, id, filePath, time.Now().UTC())
	return scanDocument(row)
}

// Delete removes a document row. It does not return an error if the row does
// not exist; existence checks belong to the service layer.
func (r *DocumentPostgres) Delete(ctx context.Context, q repository.Querier, id string) error {
	const query = `DELETE FROM documents WHERE id = $1`
	res, err := q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
