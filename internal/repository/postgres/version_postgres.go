package postgres

import (
	"context"

	"medvault/internal/model"
	"medvault/internal/repository"
)

// VersionPostgres is a PostgreSQL implementation of repository.VersionRepository.
// The versions table carries UNIQUE (document_id, version_number) so a racing
// writer that slips past the document row lock fails the insert instead of
// duplicating a number.
type VersionPostgres struct{}

// NewVersionPostgres creates a new VersionPostgres repository.
func NewVersionPostgres() *VersionPostgres {
	return &VersionPostgres{}
}

var _ repository.VersionRepository = (*VersionPostgres)(nil)

const versionColumns = `id, document_id, version_number, file_path, created_at, updated_at`

func scanVersion(row interface{ Scan(...any) error }) (*model.Version, error) {
	var v model.Version
	if err := row.Scan(
		&v.ID,
		&v.DocumentID,
		&v.VersionNumber,
		&v.FilePath,
		&v.CreatedAt,
		&v.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserts a new version row and returns the stored record.
func (r *VersionPostgres) Create(ctx context.Context, q repository.Querier, v *model.Version) (*model.Version, error) {
	query := `
		INSERT INTO versions (` + versionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + versionColumns
	row := q.QueryRowContext(ctx, query,
		v.ID,
		v.DocumentID,
		v.VersionNumber,
		v.FilePath,
		v.CreatedAt,
		v.UpdatedAt,
	)
	return scanVersion(row)
}

// LatestNumber returns MAX(version_number) for the document, 0 when it has no
// versions.
func (r *VersionPostgres) LatestNumber(ctx context.Context, q repository.Querier, documentID string) (int, error) {
	const query = `SELECT COALESCE(MAX(version_number), 0) FROM versions WHERE document_id = $1`
	var n int
	if err := q.QueryRowContext(ctx, query, documentID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// FindByNumber fetches a version by its joint key (document_id, version_number).
// The document scope is part of the lookup itself, never a post-hoc ownership
// check, so a number belonging to another document can never match.
func (r *VersionPostgres) FindByNumber(ctx context.Context, q repository.Querier, documentID string, number int) (*model.Version, error) {
	query := `SELECT ` + versionColumns + ` FROM versions WHERE document_id = $1 AND version_number = $2`
	return scanVersion(q.QueryRowContext(ctx, query, documentID, number))
}

// ListByDocument returns the document's versions newest first.
func (r *VersionPostgres) ListByDocument(ctx context.Context, q repository.Querier, documentID string) ([]model.Version, error) {
	query := `SELECT ` + versionColumns + ` FROM versions WHERE document_id = $1 ORDER BY version_number DESC`
	rows, err := q.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Version, 0)
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// PathsByDocument returns every version's storage key for blob cleanup.
func (r *VersionPostgres) PathsByDocument(ctx context.Context, q repository.Querier, documentID string) ([]string, error) {
	const query = `SELECT file_path FROM versions WHERE document_id = $1 ORDER BY version_number`
	rows, err := q.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paths := make([]string, 0)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return paths, nil
}

// DeleteByDocument removes all version rows of a document.
func (r *VersionPostgres) DeleteByDocument(ctx context.Context, q repository.Querier, documentID string) error {
	const query = `DELETE FROM versions WHERE document_id = $1`
	_, err := q.ExecContext(ctx, query, documentID)
	return err
}
