// Package models defines server-side data models persisted in the database.
package models

import "time"

// Attachment is the stored metadata row for a persisted attachment. The
// bytes themselves live in object storage under StorageKey.
type Attachment struct {
	// ID is the server-assigned identifier (UUID).
	ID string
	// Filename is the sanitized client filename.
	Filename string
	// ContentType is the resolved MIME type.
	ContentType string
	// Size is the stored byte count.
	Size int64
	// StorageKey is the object-storage key of the payload.
	StorageKey string

	CreatedAt time.Time
	UpdatedAt time.Time
}
