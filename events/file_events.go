package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// FileStoredEvent is emitted after an upload has been written to storage.
type FileStoredEvent struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	OriginalName string    `json:"original_name"`
	Size         int64     `json:"size"`
	StoredAt     time.Time `json:"stored_at"`
}

// FileStoredV1 is the typed event definition for stored files.
// Subject: events.fileservice.v1.file-stored
var FileStoredV1 = helper.EventDefinition[FileStoredEvent](
	"fileservice", "FileStored", "v1",
)

// FileDeletedEvent is emitted after a stored file has been removed.
type FileDeletedEvent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	DeletedAt time.Time `json:"deleted_at"`
}

// FileDeletedV1 is the typed event definition for deleted files.
// Subject: events.fileservice.v1.file-deleted
var FileDeletedV1 = helper.EventDefinition[FileDeletedEvent](
	"fileservice", "FileDeleted", "v1",
)
