package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"medvault/internal/model"
	"medvault/internal/repository"
)

// VersionService defines the version history use cases: listing a document's
// ledger, rolling the document back to a prior version, and reading the
// notification log.
type VersionService interface {
	// List returns the document's versions newest first. A document with no
	// edits yet has an empty history; the original upload is not a version.
	List(ctx context.Context, documentID string) ([]model.Version, error)

	// Revert points the document's current content back at the named
	// version's content and records a notification, atomically.
	Revert(ctx context.Context, documentID string, versionNumber int) (*model.RevertResult, error)

	// Notifications returns the document's state-change log, most recent
	// first.
	Notifications(ctx context.Context, documentID string) ([]model.Notification, error)
}

type versionService struct {
	db       *sql.DB
	docs     repository.DocumentRepository
	versions repository.VersionRepository
	notes    repository.NotificationRepository
}

// NewVersionService constructs a new VersionService.
func NewVersionService(db *sql.DB, docs repository.DocumentRepository, versions repository.VersionRepository, notes repository.NotificationRepository) VersionService {
	return &versionService{db: db, docs: docs, versions: versions, notes: notes}
}

func (s *versionService) List(ctx context.Context, documentID string) ([]model.Version, error) {
	if documentID == "" {
		return nil, ErrIDRequired
	}
	if _, err := s.docs.FindByID(ctx, s.db, documentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.versions.ListByDocument(ctx, s.db, documentID)
}

// Revert resolves the target strictly by the (document_id, version_number)
// pair, so a version number that exists under a different document is treated
// as absent. The pointer move and the notification commit together or not at
// all. The pre-revert content reference is not preserved as a new version;
// reverting to the same number twice is therefore idempotent on content.
func (s *versionService) Revert(ctx context.Context, documentID string, versionNumber int) (*model.RevertResult, error) {
	if documentID == "" {
		return nil, ErrIDRequired
	}
	if versionNumber < 1 {
		return nil, ErrVersionNotFound
	}

	doc, err := s.docs.FindByID(ctx, s.db, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	version, err := s.versions.FindByNumber(ctx, s.db, documentID, versionNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVersionNotFound
		}
		return nil, err
	}

	var updated *model.Document
	err = repository.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		var txErr error
		updated, txErr = s.docs.UpdateFilePath(ctx, tx, documentID, version.FilePath)
		if txErr != nil {
			return txErr
		}
		_, txErr = s.notes.Create(ctx, tx, &model.Notification{
			ID:         uuid.New().String(),
			Message:    fmt.Sprintf("%s reverted to version %d", doc.FileName, version.VersionNumber),
			DocumentID: documentID,
			CreatedAt:  time.Now().UTC(),
		})
		return txErr
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("revert: %w", err)
	}

	return &model.RevertResult{
		Document:      *updated,
		VersionID:     version.ID,
		VersionNumber: version.VersionNumber,
	}, nil
}

func (s *versionService) Notifications(ctx context.Context, documentID string) ([]model.Notification, error) {
	if documentID == "" {
		return nil, ErrIDRequired
	}
	if _, err := s.docs.FindByID(ctx, s.db, documentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.notes.ListByDocument(ctx, s.db, documentID)
}
