package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"medvault/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var versionCols = []string{"id", "document_id", "version_number", "file_path", "created_at", "updated_at"}

func TestVersionPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVersionPostgres()
	ctx := context.Background()

	now := time.Now().UTC()
	v := &model.Version{
		ID:            "ver-uuid",
		DocumentID:    "doc-uuid",
		VersionNumber: 1,
		FilePath:      "versions/doc-uuid/ver-uuid.pdf",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	mock.ExpectQuery("INSERT INTO versions").
		WithArgs(v.ID, v.DocumentID, v.VersionNumber, v.FilePath, v.CreatedAt, v.UpdatedAt).
		WillReturnRows(sqlmock.NewRows(versionCols).
			AddRow(v.ID, v.DocumentID, v.VersionNumber, v.FilePath, v.CreatedAt, v.UpdatedAt))

	result, err := repo.Create(ctx, db, v)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.VersionNumber)
	assert.Equal(t, "doc-uuid", result.DocumentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVersionPostgres_LatestNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVersionPostgres()
	ctx := context.Background()

	t.Run("no versions yields zero", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(MAX\(version_number\), 0\) FROM versions`).
			WithArgs("doc-uuid").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

		n, err := repo.LatestNumber(ctx, db, "doc-uuid")

		assert.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("returns max", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(MAX\(version_number\), 0\) FROM versions`).
			WithArgs("doc-uuid").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(7))

		n, err := repo.LatestNumber(ctx, db, "doc-uuid")

		assert.NoError(t, err)
		assert.Equal(t, 7, n)
	})
}

func TestVersionPostgres_FindByNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVersionPostgres()
	ctx := context.Background()

	t.Run("found by joint key", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM versions WHERE document_id = (.+) AND version_number = ?").
			WithArgs("doc-uuid", 2).
			WillReturnRows(sqlmock.NewRows(versionCols).
				AddRow("ver-2", "doc-uuid", 2, "versions/doc-uuid/b.pdf", time.Now(), time.Now()))

		v, err := repo.FindByNumber(ctx, db, "doc-uuid", 2)

		assert.NoError(t, err)
		assert.Equal(t, 2, v.VersionNumber)
	})

	t.Run("number under another document is not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM versions WHERE document_id = (.+) AND version_number = ?").
			WithArgs("other-doc", 2).
			WillReturnRows(sqlmock.NewRows(versionCols))

		v, err := repo.FindByNumber(ctx, db, "other-doc", 2)

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, v)
	})
}

func TestVersionPostgres_ListByDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVersionPostgres()
	ctx := context.Background()

	t.Run("newest first", func(t *testing.T) {
		rows := sqlmock.NewRows(versionCols).
			AddRow("ver-2", "doc-uuid", 2, "versions/doc-uuid/c.pdf", time.Now(), time.Now()).
			AddRow("ver-1", "doc-uuid", 1, "versions/doc-uuid/b.pdf", time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM versions WHERE document_id = (.+) ORDER BY version_number DESC").
			WithArgs("doc-uuid").
			WillReturnRows(rows)

		versions, err := repo.ListByDocument(ctx, db, "doc-uuid")

		assert.NoError(t, err)
		require.Len(t, versions, 2)
		assert.Equal(t, 2, versions[0].VersionNumber)
		assert.Equal(t, 1, versions[1].VersionNumber)
	})

	t.Run("empty history", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM versions WHERE document_id = ?").
			WithArgs("fresh-doc").
			WillReturnRows(sqlmock.NewRows(versionCols))

		versions, err := repo.ListByDocument(ctx, db, "fresh-doc")

		assert.NoError(t, err)
		assert.Empty(t, versions)
	})
}

func TestVersionPostgres_PathsByDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVersionPostgres()
	ctx := context.Background()

	mock.ExpectQuery("SELECT file_path FROM versions WHERE document_id = ?").
		WithArgs("doc-uuid").
		WillReturnRows(sqlmock.NewRows([]string{"file_path"}).
			AddRow("versions/doc-uuid/b.pdf").
			AddRow("versions/doc-uuid/c.pdf"))

	paths, err := repo.PathsByDocument(ctx, db, "doc-uuid")

	assert.NoError(t, err)
	assert.Equal(t, []string{"versions/doc-uuid/b.pdf", "versions/doc-uuid/c.pdf"}, paths)
}

func TestVersionPostgres_DeleteByDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVersionPostgres()
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM versions WHERE document_id = ?").
		WithArgs("doc-uuid").
		WillReturnResult(sqlmock.NewResult(0, 2))

	err = repo.DeleteByDocument(ctx, db, "doc-uuid")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
