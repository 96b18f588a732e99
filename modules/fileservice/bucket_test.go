package fileservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/storage"
	fsjetstream "github.com/go-monolith/mono/plugin/fs-jetstream"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestPlugin starts a mono application with an in-memory bucket.
func createTestPlugin(t *testing.T) *fsjetstream.PluginModule {
	t.Helper()

	// Create mono application with embedded NATS for testing
	app, err := mono.NewMonoApplication(
		mono.WithLogLevel(mono.LogLevelError), // Suppress logs in tests
	)
	require.NoError(t, err)

	plugin, err := fsjetstream.New(fsjetstream.Config{
		Buckets: []fsjetstream.BucketConfig{
			{
				Name:        DefaultBucket,
				Description: "Test bucket",
				MaxBytes:    10 * 1024 * 1024, // 10MB
				Storage:     fsjetstream.MemoryStorage,
			},
		},
	})
	require.NoError(t, err)

	err = app.RegisterPlugin(plugin, "storage")
	require.NoError(t, err)

	// Start the application (this initializes NATS and plugins)
	err = app.Start(context.Background())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = app.Stop(context.Background())
	})

	return plugin
}

func TestBucketDirectory_Lifecycle(t *testing.T) {
	plugin := createTestPlugin(t)
	dir := NewBucketDirectory(plugin.Bucket(DefaultBucket))
	ctx := context.Background()

	require.NoError(t, dir.EnsureRoot(ctx))

	entries, err := dir.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	n, err := dir.Create(ctx, "1700000000000-a.txt", strings.NewReader("alpha"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	// A name that is a prefix of another must not match it.
	exists, err := dir.Exists(ctx, "1700000000000-a")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = dir.Exists(ctx, "1700000000000-a.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	rc, entry, err := dir.Open(ctx, "1700000000000-a.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(data))
	assert.Equal(t, int64(5), entry.Size)

	entries, err = dir.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "1700000000000-a.txt", entries[0].Name)

	require.NoError(t, dir.Remove(ctx, "1700000000000-a.txt"))

	exists, err = dir.Exists(ctx, "1700000000000-a.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBucketDirectory_ServiceScenario(t *testing.T) {
	plugin := createTestPlugin(t)
	dir := NewBucketDirectory(plugin.Bucket(DefaultBucket))
	svc := NewService(dir, NewNameGenerator(nil), &mockLogger{})
	ctx := context.Background()

	payload := strings.Repeat("0123456789abcdef", 64) // 1024 bytes
	stored, err := svc.Store(ctx, strings.NewReader(payload), "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(1024), stored.Size)

	files, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "report.pdf", files[0].OriginalName)

	rc, _, err := svc.Fetch(ctx, stored.Name)
	require.NoError(t, err)
	assert.Equal(t, payload, string(readAllAndClose(t, rc)))

	require.NoError(t, svc.Delete(ctx, stored.Name))
	assert.ErrorIs(t, svc.Delete(ctx, stored.Name), ErrFileNotFound)

	_, _, err = svc.Fetch(ctx, stored.Name)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestBucketDirectory_MissingBucket(t *testing.T) {
	dir := NewBucketDirectory(nil)
	assert.Error(t, dir.EnsureRoot(context.Background()))
}

func TestNotExist(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		missing bool
	}{
		{"backend key not found", fmt.Errorf("%w: %s", storage.ErrKeyNotFound, "1-a.txt"), true},
		{"adapter key not found", storage.ErrKeyNotFound, true},
		{"object not found", jetstream.ErrObjectNotFound, true},
		{"other failure", errors.New("nats: timeout"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := notExist("open", "1-a.txt", tc.err)
			assert.Equal(t, tc.missing, errors.Is(err, fs.ErrNotExist))
			if !tc.missing {
				assert.Equal(t, tc.err, err)
			}
		})
	}
}

func TestBucketDirectory_MissingObject(t *testing.T) {
	plugin := createTestPlugin(t)
	dir := NewBucketDirectory(plugin.Bucket(DefaultBucket))
	ctx := context.Background()

	_, _, err := dir.Open(ctx, "1700000000000-gone.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	err = dir.Remove(ctx, "1700000000000-gone.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

// staleDirectory claims every entry exists, as if a concurrent delete ran
// between the existence check and the actual operation.
type staleDirectory struct {
	*BucketDirectory
}

func (staleDirectory) Exists(context.Context, string) (bool, error) {
	return true, nil
}

func TestBucketDirectory_DeletedAfterCheck(t *testing.T) {
	plugin := createTestPlugin(t)
	notifier := &recordingNotifier{}
	svc := NewService(staleDirectory{NewBucketDirectory(plugin.Bucket(DefaultBucket))}, NewNameGenerator(nil), &mockLogger{})
	svc.SetNotifier(notifier)
	ctx := context.Background()

	_, _, err := svc.Fetch(ctx, "1700000000000-gone.txt")
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.NotErrorIs(t, err, ErrStorageFailure)

	err = svc.Delete(ctx, "1700000000000-gone.txt")
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.Empty(t, notifier.deleted, "a delete that removed nothing must not be announced")
}
