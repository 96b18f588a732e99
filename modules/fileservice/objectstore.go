package fileservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	domain "github.com/example/file-storage-service/domain/file"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// ObjectStoreDirectory implements Directory on a JetStream object store of an
// external NATS server. Unlike BucketDirectory it owns its connection.
type ObjectStoreDirectory struct {
	natsURL    string
	bucketName string
	conn       *nats.Conn
	store      jetstream.ObjectStore
}

// Compile-time interface check
var _ Directory = (*ObjectStoreDirectory)(nil)

// NewObjectStoreDirectory creates a Directory for bucketName on the NATS
// server at natsURL. The connection is opened by EnsureRoot.
func NewObjectStoreDirectory(natsURL, bucketName string) *ObjectStoreDirectory {
	return &ObjectStoreDirectory{
		natsURL:    natsURL,
		bucketName: bucketName,
	}
}

// EnsureRoot connects to NATS and opens the bucket, creating it if needed.
func (o *ObjectStoreDirectory) EnsureRoot(ctx context.Context) error {
	if o.store != nil {
		return nil
	}

	conn, err := nats.Connect(o.natsURL, nats.Name("file-storage-service"))
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	// Try to get existing bucket first
	store, err := js.ObjectStore(ctx, o.bucketName)
	if err != nil {
		store, err = js.CreateObjectStore(ctx, jetstream.ObjectStoreConfig{
			Bucket:      o.bucketName,
			Description: "Uploaded files",
		})
		if err != nil {
			conn.Close()
			return fmt.Errorf("failed to create object store bucket: %w", err)
		}
	}

	o.conn = conn
	o.store = store
	return nil
}

// Exists reports whether an object named name is present.
func (o *ObjectStoreDirectory) Exists(ctx context.Context, name string) (bool, error) {
	if _, err := o.store.GetInfo(ctx, name); err != nil {
		if errors.Is(err, jetstream.ErrObjectNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List returns metadata for every live object in the bucket.
func (o *ObjectStoreDirectory) List(ctx context.Context) ([]Entry, error) {
	infos, err := o.store.List(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoObjectsFound) {
			return []Entry{}, nil
		}
		return nil, err
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, Entry{
			Name:    info.Name,
			Size:    int64(info.Size),
			ModTime: info.ModTime,
		})
	}
	return entries, nil
}

// Create streams r into the object named name. The object only becomes
// visible once every chunk has been written.
func (o *ObjectStoreDirectory) Create(ctx context.Context, name string, r io.Reader) (int64, error) {
	meta := jetstream.ObjectMeta{
		Name: name,
		Headers: nats.Header{
			"Original-Name": []string{domain.OriginalName(name)},
			"Uploaded-At":   []string{time.Now().Format(time.RFC3339)},
		},
	}

	info, err := o.store.Put(ctx, meta, r)
	if err != nil {
		return 0, err
	}
	return int64(info.Size), nil
}

// Open returns a streaming reader for the object named name. Reading stops
// when ctx is done.
func (o *ObjectStoreDirectory) Open(ctx context.Context, name string) (io.ReadCloser, Entry, error) {
	result, err := o.store.Get(ctx, name)
	if err != nil {
		return nil, Entry{}, notExist("open", name, err)
	}

	info, err := result.Info()
	if err != nil {
		result.Close()
		return nil, Entry{}, err
	}

	return result, Entry{Name: info.Name, Size: int64(info.Size), ModTime: info.ModTime}, nil
}

// Remove deletes the object named name.
func (o *ObjectStoreDirectory) Remove(ctx context.Context, name string) error {
	if err := o.store.Delete(ctx, name); err != nil {
		return notExist("remove", name, err)
	}
	return nil
}

// IsConnected returns whether the NATS connection is active.
func (o *ObjectStoreDirectory) IsConnected() bool {
	return o.conn != nil && o.conn.IsConnected()
}

// Close closes the NATS connection.
func (o *ObjectStoreDirectory) Close() error {
	if o.conn != nil {
		o.conn.Close()
	}
	return nil
}
