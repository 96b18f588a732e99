package fileservice

import (
	"sync"
	"testing"
	"time"

	domain "github.com/example/file-storage-service/domain/file"
	"github.com/go-monolith/mono/pkg/types"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)         {}
func (m *mockLogger) Info(msg string, args ...any)          {}
func (m *mockLogger) Warn(msg string, args ...any)          {}
func (m *mockLogger) Error(msg string, args ...any)         {}
func (m *mockLogger) With(args ...any) types.Logger         { return m }
func (m *mockLogger) WithError(err error) types.Logger      { return m }
func (m *mockLogger) WithModule(module string) types.Logger { return m }

// fixedNamer always returns the same prefix, forcing name collisions.
type fixedNamer struct {
	prefix string
}

func (n fixedNamer) Generate(originalName string) string {
	return n.prefix + "-" + originalName
}

// recordingNotifier captures lifecycle notifications.
type recordingNotifier struct {
	mu      sync.Mutex
	stored  []domain.StoredFile
	deleted []string
}

func (r *recordingNotifier) FileStored(file domain.StoredFile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored = append(r.stored, file)
}

func (r *recordingNotifier) FileDeleted(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, name)
}

// newDiskService creates a service storing into a fresh temporary directory.
func newDiskService(t *testing.T) (*Service, *DiskDirectory) {
	t.Helper()
	dir := NewDiskDirectory(t.TempDir())
	return NewService(dir, NewNameGenerator(time.Now), &mockLogger{}), dir
}
