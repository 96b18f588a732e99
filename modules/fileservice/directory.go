package fileservice

import (
	"context"
	"io"
	"time"
)

// Directory is the flat namespace holding every stored file. It is the only
// source of truth about which files exist.
//
// Implementations report missing entries with errors matching fs.ErrNotExist.
type Directory interface {
	// EnsureRoot creates the storage root if needed. It is idempotent.
	EnsureRoot(ctx context.Context) error
	// Exists reports whether an entry with exactly this name is present.
	Exists(ctx context.Context, name string) (bool, error)
	// List returns all entries in the order the medium yields them.
	List(ctx context.Context) ([]Entry, error)
	// Create writes every byte of r under name, replacing any existing entry.
	Create(ctx context.Context, name string, r io.Reader) (int64, error)
	// Open returns a sequential reader for name. The caller must close it.
	Open(ctx context.Context, name string) (io.ReadCloser, Entry, error)
	// Remove deletes the entry permanently.
	Remove(ctx context.Context, name string) error
}

// Entry is the medium metadata of a single stored file.
type Entry struct {
	Name    string
	Size    int64
	ModTime time.Time
}
