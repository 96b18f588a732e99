package fileservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// tempPrefix marks in-flight uploads. Such entries are invisible to every
// Directory operation until they are renamed to their final name.
const tempPrefix = ".upload-"

// DiskDirectory implements Directory on a single flat OS directory.
type DiskDirectory struct {
	root string
}

// Compile-time interface check
var _ Directory = (*DiskDirectory)(nil)

// NewDiskDirectory creates a Directory rooted at root.
func NewDiskDirectory(root string) *DiskDirectory {
	return &DiskDirectory{root: filepath.Clean(root)}
}

// Root returns the directory path.
func (d *DiskDirectory) Root() string {
	return d.root
}

// EnsureRoot creates the root directory if it does not exist.
func (d *DiskDirectory) EnsureRoot(_ context.Context) error {
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return fmt.Errorf("failed to create storage root: %w", err)
	}
	return nil
}

// Exists reports whether a regular file named name is present in the root.
func (d *DiskDirectory) Exists(_ context.Context, name string) (bool, error) {
	path, err := d.resolve(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// List returns metadata for every regular file in the root.
func (d *DiskDirectory) List(_ context.Context) ([]Entry, error) {
	dirEntries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !de.Type().IsRegular() || isTempName(de.Name()) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		entries = append(entries, Entry{
			Name:    de.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return entries, nil
}

// Create streams r into a temporary file and renames it to name once every
// byte has been written and synced.
func (d *DiskDirectory) Create(_ context.Context, name string, r io.Reader) (int64, error) {
	path, err := d.resolve(name)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(d.root, tempPrefix+"*")
	if err != nil {
		return 0, err
	}
	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return n, err
	}

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return n, err
	}

	// Flush data to disk before rename for crash safety
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return n, err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return n, err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return n, err
	}
	return n, nil
}

// Open opens name for sequential reading.
func (d *DiskDirectory) Open(_ context.Context, name string) (io.ReadCloser, Entry, error) {
	path, err := d.resolve(name)
	if err != nil {
		return nil, Entry{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, Entry{}, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, Entry{}, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, Entry{}, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}

	return f, Entry{Name: name, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// Remove deletes name from the root.
func (d *DiskDirectory) Remove(_ context.Context, name string) error {
	path, err := d.resolve(name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// resolve maps a storage name to its path, refusing anything that would land
// outside the root or on an in-flight upload.
func (d *DiskDirectory) resolve(name string) (string, error) {
	if err := validateStorageName(name); err != nil {
		return "", err
	}
	if isTempName(name) {
		return "", &fs.PathError{Op: "resolve", Path: name, Err: fs.ErrNotExist}
	}

	path := filepath.Join(d.root, name)
	if filepath.Dir(path) != d.root {
		return "", fmt.Errorf("%w: %q escapes storage root", ErrInvalidFilename, name)
	}
	return path, nil
}

func isTempName(name string) bool {
	return strings.HasPrefix(name, tempPrefix)
}
