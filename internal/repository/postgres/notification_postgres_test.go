package postgres

import (
	"context"
	"testing"
	"time"

	"medvault/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var notificationCols = []string{"id", "message", "document_id", "created_at"}

func TestNotificationPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewNotificationPostgres()
	ctx := context.Background()

	now := time.Now().UTC()
	n := &model.Notification{
		ID:         "note-uuid",
		Message:    "lab-results.pdf reverted to version 1",
		DocumentID: "doc-uuid",
		CreatedAt:  now,
	}

	mock.ExpectQuery("INSERT INTO notifications").
		WithArgs(n.ID, n.Message, n.DocumentID, n.CreatedAt).
		WillReturnRows(sqlmock.NewRows(notificationCols).
			AddRow(n.ID, n.Message, n.DocumentID, n.CreatedAt))

	result, err := repo.Create(ctx, db, n)

	assert.NoError(t, err)
	assert.Equal(t, n.Message, result.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationPostgres_ListByDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewNotificationPostgres()
	ctx := context.Background()

	t.Run("most recent first", func(t *testing.T) {
		rows := sqlmock.NewRows(notificationCols).
			AddRow("note-2", "report.pdf reverted to version 1", "doc-uuid", time.Now()).
			AddRow("note-1", "report.pdf updated to version 1", "doc-uuid", time.Now().Add(-time.Minute))

		mock.ExpectQuery("SELECT (.+) FROM notifications WHERE document_id = (.+) ORDER BY created_at DESC").
			WithArgs("doc-uuid").
			WillReturnRows(rows)

		notes, err := repo.ListByDocument(ctx, db, "doc-uuid")

		assert.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Contains(t, notes[0].Message, "reverted")
	})

	t.Run("empty log", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM notifications WHERE document_id = ?").
			WithArgs("quiet-doc").
			WillReturnRows(sqlmock.NewRows(notificationCols))

		notes, err := repo.ListByDocument(ctx, db, "quiet-doc")

		assert.NoError(t, err)
		assert.Empty(t, notes)
	})
}

func TestNotificationPostgres_DeleteByDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewNotificationPostgres()
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM notifications WHERE document_id = ?").
		WithArgs("doc-uuid").
		WillReturnResult(sqlmock.NewResult(0, 3))

	err = repo.DeleteByDocument(ctx, db, "doc-uuid")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
