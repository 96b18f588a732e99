package fileservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	domain "github.com/example/file-storage-service/domain/file"
	"github.com/go-monolith/mono/pkg/types"
)

// Notifier is told about completed storage changes.
type Notifier interface {
	FileStored(file domain.StoredFile)
	FileDeleted(name string)
}

// Service provides the storage operations on top of a Directory.
// It holds no locks; concurrent callers rely on the medium's own guarantees.
type Service struct {
	dir      Directory
	names    Namer
	notifier Notifier
	logger   types.Logger
}

// NewService creates a new file service storing into dir.
func NewService(dir Directory, names Namer, logger types.Logger) *Service {
	return &Service{
		dir:    dir,
		names:  names,
		logger: logger,
	}
}

// SetNotifier registers n to be told about stored and deleted files.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// Store streams r into a newly named entry and returns its metadata.
// A name collision silently replaces the previous entry.
func (s *Service) Store(ctx context.Context, r io.Reader, originalName string) (*domain.StoredFile, error) {
	if r == nil || originalName == "" {
		return nil, ErrNoFile
	}

	// Sanitize filename to prevent path traversal attacks
	name := s.names.Generate(sanitizeFilename(originalName))

	src := &sourceReader{ctx: ctx, r: r}
	size, err := s.dir.Create(ctx, name, src)
	if err != nil {
		if src.err != nil {
			s.logger.Warn("Upload aborted", "name", name, "error", src.err)
			return nil, fmt.Errorf("%w: %w", ErrUploadAborted, src.err)
		}
		s.logger.Error("Failed to store file", "name", name, "error", err)
		return nil, fmt.Errorf("%w: failed to store file: %w", ErrStorageFailure, err)
	}

	stored := domain.New(name, size, time.Now())
	s.logger.Info("File stored", "name", name, "size", size)

	if s.notifier != nil {
		s.notifier.FileStored(stored)
	}
	return &stored, nil
}

// List returns every stored file with metadata read from the medium.
func (s *Service) List(ctx context.Context) ([]domain.StoredFile, error) {
	entries, err := s.dir.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list files", "error", err)
		return nil, fmt.Errorf("%w: failed to list files: %w", ErrStorageFailure, err)
	}

	files := make([]domain.StoredFile, 0, len(entries))
	for _, e := range entries {
		files = append(files, domain.New(e.Name, e.Size, e.ModTime))
	}
	return files, nil
}

// Fetch opens the file addressed by identifier for reading.
// The caller must close the returned reader.
func (s *Service) Fetch(ctx context.Context, identifier string) (io.ReadCloser, *domain.StoredFile, error) {
	name, err := s.lookup(ctx, identifier)
	if err != nil {
		return nil, nil, err
	}

	reader, entry, err := s.dir.Open(ctx, name)
	if err != nil {
		// Deleted after the existence check.
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
		}
		s.logger.Error("Failed to open file", "name", name, "error", err)
		return nil, nil, fmt.Errorf("%w: failed to open file: %w", ErrStorageFailure, err)
	}

	stored := domain.New(name, entry.Size, entry.ModTime)
	return reader, &stored, nil
}

// Delete permanently removes the file addressed by identifier.
func (s *Service) Delete(ctx context.Context, identifier string) error {
	name, err := s.lookup(ctx, identifier)
	if err != nil {
		return err
	}

	if err := s.dir.Remove(ctx, name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, name)
		}
		s.logger.Error("Failed to delete file", "name", name, "error", err)
		return fmt.Errorf("%w: failed to delete file: %w", ErrStorageFailure, err)
	}

	s.logger.Info("File deleted", "name", name)

	if s.notifier != nil {
		s.notifier.FileDeleted(name)
	}
	return nil
}

// lookup sanitizes identifier and confirms the entry exists.
func (s *Service) lookup(ctx context.Context, identifier string) (string, error) {
	name, err := SanitizeIdentifier(identifier)
	if err != nil {
		return "", err
	}

	exists, err := s.dir.Exists(ctx, name)
	if err != nil {
		s.logger.Error("Failed to check file", "name", name, "error", err)
		return "", fmt.Errorf("%w: failed to check file: %w", ErrStorageFailure, err)
	}
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	return name, nil
}

// sourceReader stops the copy once ctx is done and remembers failures that
// came from the upload stream rather than the medium.
type sourceReader struct {
	ctx context.Context
	r   io.Reader
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	if err := s.ctx.Err(); err != nil {
		s.err = err
		return 0, err
	}
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		s.err = err
	}
	return n, err
}
