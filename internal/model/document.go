package model

import "time"

// Document represents a stored patient file in the system.
// This is a pure domain model with no database-specific dependencies or tags.
// FilePath always references the document's current live content in object
// storage: either the original upload or the content of one of its versions
// after an edit or revert.
type Document struct {
	ID               string    `json:"id"`
	FileName         string    `json:"file_name"`
	DocumentCategory string    `json:"document_category"`
	PatientName      string    `json:"patient_name"`
	FileType         string    `json:"file_type"`
	FilePath         string    `json:"file_path"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
