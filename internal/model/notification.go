package model

import "time"

// Notification is an append-only record of a state change on a document, such
// as a content edit or a revert. Notifications are never mutated; they are only
// removed when their owning document is deleted.
type Notification struct {
	ID         string    `json:"id"`
	Message    string    `json:"message"`
	DocumentID string    `json:"document_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// RevertResult reports the outcome of rolling a document back to one of its
// prior versions.
type RevertResult struct {
	Document      Document `json:"document"`
	VersionID     string   `json:"version_id"`
	VersionNumber int      `json:"version_number"`
}
