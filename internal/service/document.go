package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"medvault/internal/model"
	"medvault/internal/repository"
	"medvault/internal/storage"
)

var (
	ErrIDRequired      = errors.New("id is required")
	ErrNotFound        = errors.New("document not found")
	ErrVersionNotFound = errors.New("version not found")
	ErrNothingToUpdate = errors.New("no fields to update")
)

// IsValidationError reports whether err came from request validation, so the
// boundary layer can map it to a 400 instead of a 500.
func IsValidationError(err error) bool {
	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		return true
	}
	var vErr validation.Error
	return errors.As(err, &vErr)
}

// FileUpload is one incoming file payload.
type FileUpload struct {
	Reader      io.Reader
	FileName    string
	ContentType string
	Size        int64
}

// UploadRequest carries the payload of a multi-file upload. All files share
// the same category and patient.
type UploadRequest struct {
	Files       []FileUpload
	Category    string
	PatientName string
}

// Validate checks the upload request. It runs before any side effect: a
// rejected request creates no blobs and no rows.
func (r UploadRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Files, validation.Required.Error("at least one file is required")),
		validation.Field(&r.Category, validation.Required),
		validation.Field(&r.PatientName, validation.Required),
	); err != nil {
		return err
	}
	for i, f := range r.Files {
		if f.FileName == "" {
			return validation.Errors{fmt.Sprintf("files.%d", i): errors.New("file name is required")}
		}
		if f.Reader == nil {
			return validation.Errors{fmt.Sprintf("files.%d", i): errors.New("file content is required")}
		}
	}
	return nil
}

// DocumentService defines the document registry use cases: identity, metadata,
// the current-content pointer, and lifecycle including version-producing edits.
type DocumentService interface {
	// Upload stores each file in object storage and creates one document row
	// per file inside a single transaction. Storage writes complete before
	// the transaction referencing them commits.
	Upload(ctx context.Context, req UploadRequest) ([]model.Document, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// Search filters documents by case-insensitive substring match on patient
	// name and category. Empty arguments are unconstrained.
	Search(ctx context.Context, patientName, category string) ([]model.Document, error)

	// Download streams the document's current content from object storage.
	Download(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, *model.Document, error)

	// PresignDownload returns a time-limited URL for the current content.
	PresignDownload(ctx context.Context, id string, expiry time.Duration) (string, error)

	// UpdateMetadata applies a partial metadata edit; nil fields keep their
	// prior value.
	UpdateMetadata(ctx context.Context, id string, category, patientName *string) (*model.Document, error)

	// ReplaceContent uploads a new file for the document and appends it to the
	// version ledger: the new version row and the document pointer move commit
	// in one transaction.
	ReplaceContent(ctx context.Context, id string, file FileUpload) (*model.Document, *model.Version, error)

	// Delete removes the document with its versions and notifications in one
	// transaction, then releases the blobs best-effort.
	Delete(ctx context.Context, id string) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	db       *sql.DB
	store    storage.Storage
	docs     repository.DocumentRepository
	versions repository.VersionRepository
	notes    repository.NotificationRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(db *sql.DB, store storage.Storage, docs repository.DocumentRepository, versions repository.VersionRepository, notes repository.NotificationRepository) DocumentService {
	return &documentService{db: db, store: store, docs: docs, versions: versions, notes: notes}
}

// objectKey builds a storage key preserving the original file extension.
func objectKey(prefix, originalFilename string) string {
	return filepath.ToSlash(filepath.Join(prefix, uuid.New().String()+filepath.Ext(originalFilename)))
}

func (s *documentService) Upload(ctx context.Context, req UploadRequest) ([]model.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Put all blobs first so the transaction never commits a pointer to
	// missing content. Any failure compensates the puts made so far.
	type staged struct {
		file FileUpload
		key  string
	}
	uploaded := make([]staged, 0, len(req.Files))
	cleanup := func() {
		for _, u := range uploaded {
			if err := s.store.Delete(ctx, u.key); err != nil {
				logCleanupFailure("upload_rollback", "", []string{u.key}, err)
			}
		}
	}

	for _, f := range req.Files {
		key := objectKey("documents", f.FileName)
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		_, err := s.store.Put(ctx, key, f.Reader, storage.PutObjectOptions{
			Size:        f.Size,
			ContentType: ct,
			Metadata:    map[string]string{"original-filename": f.FileName},
		})
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("upload to storage: %w", err)
		}
		uploaded = append(uploaded, staged{file: f, key: key})
	}

	created := make([]model.Document, 0, len(uploaded))
	err := repository.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, u := range uploaded {
			ct := u.file.ContentType
			if ct == "" {
				ct = "application/octet-stream"
			}
			now := time.Now().UTC()
			doc, err := s.docs.Create(ctx, tx, &model.Document{
				ID:               uuid.New().String(),
				FileName:         u.file.FileName,
				DocumentCategory: req.Category,
				PatientName:      req.PatientName,
				FileType:         ct,
				FilePath:         u.key,
				CreatedAt:        now,
				UpdatedAt:        now,
			})
			if err != nil {
				return err
			}
			created = append(created, *doc)
		}
		return nil
	})
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return created, nil
}

// Get returns a document by ID.
func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.docs.FindByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Search returns documents matching the given substring filters. No criteria
// returns all documents; no match returns an empty slice, never an error.
func (s *documentService) Search(ctx context.Context, patientName, category string) ([]model.Document, error) {
	var f repository.DocumentFilter
	if patientName != "" {
		f.PatientName = &patientName
	}
	if category != "" {
		f.Category = &category
	}
	return s.docs.Search(ctx, s.db, f)
}

func (s *documentService) Download(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, *model.Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, storage.ObjectInfo{}, nil, err
	}
	rc, info, err := s.store.Get(ctx, doc.FilePath)
	if err != nil {
		return nil, storage.ObjectInfo{}, nil, fmt.Errorf("get from storage: %w", err)
	}
	return rc, info, doc, nil
}

func (s *documentService) PresignDownload(ctx context.Context, id string, expiry time.Duration) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return s.store.PresignGet(ctx, doc.FilePath, expiry)
}

// UpdateMetadata applies a partial metadata edit. updated_at is refreshed even
// when the provided value equals the stored one.
func (s *documentService) UpdateMetadata(ctx context.Context, id string, category, patientName *string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if category == nil && patientName == nil {
		return nil, ErrNothingToUpdate
	}
	doc, err := s.docs.UpdateMetadata(ctx, s.db, id, repository.MetadataPatch{
		Category:    category,
		PatientName: patientName,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// ReplaceContent is the version ledger append. The new content is stored under
// a key of its own, then one transaction locks the document row, computes
// next = max(version_number)+1, inserts the version, moves the document's
// current pointer, and records a notification. A failed transaction leaves no
// row behind and the staged blob is compensating-deleted.
func (s *documentService) ReplaceContent(ctx context.Context, id string, file FileUpload) (*model.Document, *model.Version, error) {
	if id == "" {
		return nil, nil, ErrIDRequired
	}
	if file.FileName == "" {
		return nil, nil, validation.Errors{"file": errors.New("file name is required")}
	}
	if file.Reader == nil {
		return nil, nil, validation.Errors{"file": errors.New("file content is required")}
	}

	// Cheap existence check before touching storage.
	if _, err := s.Get(ctx, id); err != nil {
		return nil, nil, err
	}

	key := objectKey(filepath.Join("versions", id), file.FileName)
	ct := file.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	if _, err := s.store.Put(ctx, key, file.Reader, storage.PutObjectOptions{
		Size:        file.Size,
		ContentType: ct,
		Metadata:    map[string]string{"original-filename": file.FileName},
	}); err != nil {
		return nil, nil, fmt.Errorf("upload to storage: %w", err)
	}

	var (
		updated *model.Document
		version *model.Version
	)
	err := repository.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		// Row lock serializes concurrent edits of the same document so the
		// read-max-then-insert sequence can never produce duplicate numbers.
		doc, err := s.docs.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		latest, err := s.versions.LatestNumber(ctx, tx, id)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		version, err = s.versions.Create(ctx, tx, &model.Version{
			ID:            uuid.New().String(),
			DocumentID:    id,
			VersionNumber: latest + 1,
			FilePath:      key,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err != nil {
			return err
		}

		updated, err = s.docs.UpdateFilePath(ctx, tx, id, key)
		if err != nil {
			return err
		}

		_, err = s.notes.Create(ctx, tx, &model.Notification{
			ID:         uuid.New().String(),
			Message:    fmt.Sprintf("%s updated to version %d", doc.FileName, version.VersionNumber),
			DocumentID: id,
			CreatedAt:  now,
		})
		return err
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			logCleanupFailure("edit_rollback", id, []string{key}, delErr)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("db save failed: %w", err)
	}
	return updated, version, nil
}

// Delete removes the document and all owned records in one transaction, then
// releases the current blob and every version blob. Blob releases are
// best-effort post-commit cleanup: the authoritative rows are already gone, so
// a failed release is logged for out-of-band remediation and the operation
// still reports success.
func (s *documentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	var paths []string
	err = repository.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		var txErr error
		paths, txErr = s.versions.PathsByDocument(ctx, tx, id)
		if txErr != nil {
			return txErr
		}
		if err := s.notes.DeleteByDocument(ctx, tx, id); err != nil {
			return err
		}
		if err := s.versions.DeleteByDocument(ctx, tx, id); err != nil {
			return err
		}
		return s.docs.Delete(ctx, tx, id)
	})
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	// The current pointer may reference one of the version blobs after an
	// edit or revert; dedupe so each key is released once.
	keys := map[string]struct{}{doc.FilePath: {}}
	for _, p := range paths {
		keys[p] = struct{}{}
	}
	var failed []string
	var lastErr error
	for k := range keys {
		if err := s.store.Delete(ctx, k); err != nil {
			failed = append(failed, k)
			lastErr = err
		}
	}
	if len(failed) > 0 {
		logCleanupFailure("delete_cleanup", id, failed, lastErr)
	}
	return nil
}

// logCleanupFailure emits a JSON log line for orphaned storage objects that
// could not be released. These are never retried synchronously.
func logCleanupFailure(event, documentID string, keys []string, err error) {
	b, mErr := json.Marshal(map[string]any{
		"ts":            time.Now().UTC().Format(time.RFC3339Nano),
		"level":         "error",
		"component":     "document_service",
		"event":         event,
		"document_id":   documentID,
		"orphaned_keys": keys,
		"error_message": err.Error(),
	})
	if mErr != nil {
		log.Printf("blob cleanup failed for %v: %v", keys, err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
