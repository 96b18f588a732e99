package fileservice

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Namer produces storage names for uploaded files.
type Namer interface {
	Generate(originalName string) string
}

// NameGenerator builds storage names of the form "<unixMillis>-<originalName>".
// Prefixes issued by one generator are strictly increasing, so names sort in
// upload order even when several uploads land in the same millisecond.
type NameGenerator struct {
	clock func() time.Time

	mu   sync.Mutex
	last int64
}

// NewNameGenerator creates a generator reading time from clock.
// A nil clock defaults to time.Now.
func NewNameGenerator(clock func() time.Time) *NameGenerator {
	if clock == nil {
		clock = time.Now
	}
	return &NameGenerator{clock: clock}
}

// Generate returns a storage name for originalName. The original name is
// embedded verbatim; callers are expected to sanitize it first.
func (g *NameGenerator) Generate(originalName string) string {
	return strconv.FormatInt(g.next(), 10) + "-" + originalName
}

func (g *NameGenerator) next() int64 {
	now := g.clock().UnixMilli()

	g.mu.Lock()
	defer g.mu.Unlock()

	if now <= g.last {
		now = g.last + 1
	}
	g.last = now
	return now
}

// sanitizeFilename removes path separators and dangerous characters from filename.
func sanitizeFilename(filename string) string {
	// Get just the base filename without any directory components
	clean := filepath.Base(filepath.Clean(filename))

	// Remove any remaining path separators
	clean = strings.ReplaceAll(clean, "/", "_")
	clean = strings.ReplaceAll(clean, "\\", "_")
	clean = strings.ReplaceAll(clean, "\x00", "")

	// Handle edge cases
	if clean == "." || clean == ".." || clean == "" {
		return "unnamed"
	}

	return clean
}

// SanitizeIdentifier turns a client-supplied, percent-encoded identifier into
// a storage name usable as a directory lookup key. It does not check that the
// file exists.
func SanitizeIdentifier(identifier string) (string, error) {
	decoded, err := url.PathUnescape(identifier)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFilename, err)
	}

	// Clients sometimes send the name still wrapped in quotes.
	name := strings.TrimRight(decoded, `'"`)

	if err := validateStorageName(name); err != nil {
		return "", err
	}
	return name, nil
}

// validateStorageName rejects names that could address anything other than a
// single entry directly inside the storage root.
func validateStorageName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return nil
}
