package file

import (
	"strings"
	"time"
)

// StoredFile represents a file held in the storage directory.
// Size and UploadDate are read from the storage medium on every query.
type StoredFile struct {
	Name         string    `json:"name"`
	OriginalName string    `json:"original_name"`
	Size         int64     `json:"size"`
	UploadDate   time.Time `json:"upload_date"`
}

// OriginalName extracts the client-supplied name from a storage name of the
// form "<prefix>-<original>". Names without a separator are returned as is.
func OriginalName(storageName string) string {
	_, original, found := strings.Cut(storageName, "-")
	if !found {
		return storageName
	}
	return original
}

// New builds a StoredFile from medium metadata.
func New(storageName string, size int64, modTime time.Time) StoredFile {
	return StoredFile{
		Name:         storageName,
		OriginalName: OriginalName(storageName),
		Size:         size,
		UploadDate:   modTime,
	}
}
