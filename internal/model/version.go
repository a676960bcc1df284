package model

import "time"

// Version is one entry in a document's linear edit history. Versions are
// immutable once written: they are never updated or removed individually, only
// cascade-deleted with their owning document.
//
// For a given DocumentID, VersionNumber values form a gapless sequence starting
// at 1. The original upload is not represented as a version; history only
// covers content replacements after the first upload.
type Version struct {
	ID            string    `json:"id"`
	DocumentID    string    `json:"document_id"`
	VersionNumber int       `json:"version_number"`
	FilePath      string    `json:"file_path"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
