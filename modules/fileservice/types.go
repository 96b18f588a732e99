package fileservice

import (
	"fmt"
	"strings"
)

// Backend selects the storage medium behind the Directory.
type Backend string

const (
	// BackendDisk stores files in a local directory.
	BackendDisk Backend = "disk"
	// BackendJetStream stores files in a bucket of the embedded JetStream.
	BackendJetStream Backend = "jetstream"
	// BackendNATS stores files in an object store of an external NATS server.
	BackendNATS Backend = "nats"
)

const (
	// DefaultBucket is the object store bucket used by the NATS backends.
	DefaultBucket = "uploads"
	// DefaultNATSURL is the server used by BackendNATS.
	DefaultNATSURL = "nats://localhost:4222"
)

// Config holds the file service settings.
type Config struct {
	Backend Backend
	// Root is the directory used by BackendDisk.
	Root string
	// Bucket is the bucket name used by BackendJetStream and BackendNATS.
	Bucket string
	// NATSURL is the server used by BackendNATS.
	NATSURL string
}

// ParseBackend converts a configuration string into a Backend.
func ParseBackend(value string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(value))) {
	case "", BackendDisk:
		return BackendDisk, nil
	case BackendJetStream:
		return BackendJetStream, nil
	case BackendNATS:
		return BackendNATS, nil
	}
	return "", fmt.Errorf("unknown storage backend %q", value)
}
