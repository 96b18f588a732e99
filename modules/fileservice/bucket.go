package fileservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	domain "github.com/example/file-storage-service/domain/file"
	"github.com/go-monolith/mono/pkg/storage"
	fsjetstream "github.com/go-monolith/mono/plugin/fs-jetstream"
	"github.com/nats-io/nats.go/jetstream"
)

// BucketDirectory implements Directory on a JetStream object store bucket
// provided by the fs-jetstream plugin. Object names are storage names.
type BucketDirectory struct {
	bucket fsjetstream.FileStoragePort
}

// Compile-time interface check
var _ Directory = (*BucketDirectory)(nil)

// NewBucketDirectory creates a Directory backed by bucket.
func NewBucketDirectory(bucket fsjetstream.FileStoragePort) *BucketDirectory {
	return &BucketDirectory{bucket: bucket}
}

// EnsureRoot verifies the bucket is available. Buckets are created by the
// plugin when the application starts.
func (b *BucketDirectory) EnsureRoot(_ context.Context) error {
	if b.bucket == nil {
		return fmt.Errorf("storage bucket not available")
	}
	return nil
}

// Exists reports whether an object named name is present.
func (b *BucketDirectory) Exists(ctx context.Context, name string) (bool, error) {
	if _, err := b.bucket.StatWithContext(ctx, name); err != nil {
		if isMissing(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List returns metadata for every object in the bucket.
func (b *BucketDirectory) List(ctx context.Context) ([]Entry, error) {
	objects, err := b.bucket.ListWithContext(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoObjectsFound) {
			return []Entry{}, nil
		}
		return nil, err
	}

	entries := make([]Entry, 0, len(objects))
	for _, obj := range objects {
		entries = append(entries, toEntry(&obj))
	}
	return entries, nil
}

// Create streams r into the object named name, replacing any previous object.
func (b *BucketDirectory) Create(ctx context.Context, name string, r io.Reader) (int64, error) {
	info, err := b.bucket.PutReaderWithContext(ctx, name, r, 0,
		fsjetstream.WithHeaders(map[string]string{
			"Original-Name": domain.OriginalName(name),
			"Uploaded-At":   time.Now().Format(time.RFC3339),
		}),
	)
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

// Open returns a streaming reader for the object named name.
func (b *BucketDirectory) Open(ctx context.Context, name string) (io.ReadCloser, Entry, error) {
	reader, info, err := b.bucket.GetReaderWithContext(ctx, name)
	if err != nil {
		return nil, Entry{}, notExist("open", name, err)
	}
	if info == nil {
		return reader, Entry{Name: name}, nil
	}
	return reader, toEntry(info), nil
}

// Remove deletes the object named name. The bucket treats deleting a missing
// object as success, so presence is checked first.
func (b *BucketDirectory) Remove(ctx context.Context, name string) error {
	if _, err := b.bucket.StatWithContext(ctx, name); err != nil {
		return notExist("remove", name, err)
	}
	if err := b.bucket.DeleteWithContext(ctx, name); err != nil {
		return notExist("remove", name, err)
	}
	return nil
}

func toEntry(obj *fsjetstream.ObjectInfo) Entry {
	return Entry{
		Name:    obj.Name,
		Size:    obj.Size,
		ModTime: obj.ModTime,
	}
}

// isMissing reports whether err means the object does not exist.
func isMissing(err error) bool {
	return errors.Is(err, storage.ErrKeyNotFound) || errors.Is(err, jetstream.ErrObjectNotFound)
}

// notExist translates missing-object errors into fs.ErrNotExist so callers
// can treat every medium alike.
func notExist(op, name string, err error) error {
	if isMissing(err) {
		return &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
	}
	return err
}
