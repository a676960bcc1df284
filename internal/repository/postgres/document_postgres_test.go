package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"medvault/internal/model"
	"medvault/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var documentCols = []string{"id", "file_name", "document_category", "patient_name", "file_type", "file_path", "created_at", "updated_at"}

func documentRow(d *model.Document) *sqlmock.Rows {
	return sqlmock.NewRows(documentCols).
		AddRow(d.ID, d.FileName, d.DocumentCategory, d.PatientName, d.FileType, d.FilePath, d.CreatedAt, d.UpdatedAt)
}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres()
	ctx := context.Background()

	now := time.Now().UTC()
	doc := &model.Document{
		ID:               "test-uuid",
		FileName:         "lab-results.pdf",
		DocumentCategory: "lab",
		PatientName:      "John Doe",
		FileType:         "application/pdf",
		FilePath:         "documents/test-uuid.pdf",
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(doc.ID, doc.FileName, doc.DocumentCategory, doc.PatientName, doc.FileType, doc.FilePath, doc.CreatedAt, doc.UpdatedAt).
		WillReturnRows(documentRow(doc))

	result, err := repo.Create(ctx, db, doc)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, doc.ID, result.ID)
	assert.Equal(t, "John Doe", result.PatientName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres()
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs("test-id").
			WillReturnRows(documentRow(&model.Document{ID: "test-id", FileName: "file.pdf"}))

		doc, err := repo.FindByID(ctx, db, "test-id")

		assert.NoError(t, err)
		assert.NotNil(t, doc)
		assert.Equal(t, "test-id", doc.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, db, "missing")

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_FindByIDForUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres()
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = (.+) FOR UPDATE").
		WithArgs("test-id").
		WillReturnRows(documentRow(&model.Document{ID: "test-id"}))

	doc, err := repo.FindByIDForUpdate(ctx, db, "test-id")

	assert.NoError(t, err)
	assert.Equal(t, "test-id", doc.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Search(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres()
	ctx := context.Background()

	t.Run("no filters returns all", func(t *testing.T) {
		rows := sqlmock.NewRows(documentCols).
			AddRow("id-1", "a.pdf", "lab", "John Doe", "application/pdf", "documents/a.pdf", time.Now(), time.Now()).
			AddRow("id-2", "b.pdf", "scan", "Amy Smith", "application/pdf", "documents/b.pdf", time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM documents ORDER BY created_at DESC, id DESC").
			WillReturnRows(rows)

		docs, err := repo.Search(ctx, db, repository.DocumentFilter{})

		assert.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("patient name substring filter", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE patient_name ILIKE").
			WithArgs("jo").
			WillReturnRows(documentRow(&model.Document{ID: "id-1", PatientName: "John Doe"}))

		docs, err := repo.Search(ctx, db, repository.DocumentFilter{PatientName: strPtr("jo")})

		assert.NoError(t, err)
		assert.Len(t, docs, 1)
		assert.Equal(t, "John Doe", docs[0].PatientName)
	})

	t.Run("both filters", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE patient_name ILIKE (.+) AND document_category ILIKE").
			WithArgs("jo", "lab").
			WillReturnRows(sqlmock.NewRows(documentCols))

		docs, err := repo.Search(ctx, db, repository.DocumentFilter{PatientName: strPtr("jo"), Category: strPtr("lab")})

		assert.NoError(t, err)
		assert.Empty(t, docs)
	})
}

func TestDocumentPostgres_UpdateMetadata(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres()
	ctx := context.Background()

	t.Run("partial update keeps omitted fields", func(t *testing.T) {
		mock.ExpectQuery("UPDATE documents").
			WithArgs("test-id", strPtr("radiology"), nil, sqlmock.AnyArg()).
			WillReturnRows(documentRow(&model.Document{ID: "test-id", DocumentCategory: "radiology", PatientName: "John Doe"}))

		doc, err := repo.UpdateMetadata(ctx, db, "test-id", repository.MetadataPatch{Category: strPtr("radiology")})

		assert.NoError(t, err)
		assert.Equal(t, "radiology", doc.DocumentCategory)
		assert.Equal(t, "John Doe", doc.PatientName)
	})

	t.Run("missing document", func(t *testing.T) {
		mock.ExpectQuery("UPDATE documents").
			WithArgs("missing", nil, strPtr("Amy"), sqlmock.AnyArg()).
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.UpdateMetadata(ctx, db, "missing", repository.MetadataPatch{PatientName: strPtr("Amy")})

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_UpdateFilePath(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres()
	ctx := context.Background()

	mock.ExpectQuery("UPDATE documents").
		WithArgs("test-id", "versions/test-id/v1.pdf", sqlmock.AnyArg()).
		WillReturnRows(documentRow(&model.Document{ID: "test-id", FilePath: "versions/test-id/v1.pdf"}))

	doc, err := repo.UpdateFilePath(ctx, db, "test-id", "versions/test-id/v1.pdf")

	assert.NoError(t, err)
	assert.Equal(t, "versions/test-id/v1.pdf", doc.FilePath)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres()
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM documents WHERE id = ?").
		WithArgs("test-id").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Delete(ctx, db, "test-id")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func strPtr(s string) *string { return &s }
