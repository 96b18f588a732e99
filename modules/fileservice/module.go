package fileservice

import (
	"context"
	"fmt"
	"time"

	domain "github.com/example/file-storage-service/domain/file"
	"github.com/example/file-storage-service/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	fsjetstream "github.com/go-monolith/mono/plugin/fs-jetstream"
	"github.com/google/uuid"
)

// Module implements the file service module. Depending on the configured
// backend it stores files on disk or in the fs-jetstream plugin bucket.
type Module struct {
	cfg      Config
	storage  *fsjetstream.PluginModule
	dir      Directory
	service  *Service
	eventBus mono.EventBus
	logger   types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
	_ Notifier                   = (*Module)(nil)
)

// NewModule creates a new file service module.
func NewModule(cfg Config, logger types.Logger) *Module {
	if cfg.Backend == "" {
		cfg.Backend = BackendDisk
	}
	if cfg.Bucket == "" {
		cfg.Bucket = DefaultBucket
	}
	if cfg.NATSURL == "" {
		cfg.NATSURL = DefaultNATSURL
	}
	return &Module{
		cfg:    cfg,
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "fileservice"
}

// SetPlugin receives the storage plugin from the framework.
// This is called before Start() when the module implements UsePluginModule.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias == "storage" {
		storage, ok := plugin.(*fsjetstream.PluginModule)
		if !ok {
			m.logger.Error("Invalid plugin type for storage",
				"alias", alias,
				"expected", "*fsjetstream.PluginModule")
			return
		}
		m.storage = storage
		m.logger.Info("Received storage plugin", "alias", alias)
	}
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.FileStoredV1.ToBase(),
		events.FileDeletedV1.ToBase(),
	}
}

// Start opens the configured storage medium and creates the service.
func (m *Module) Start(ctx context.Context) error {
	switch m.cfg.Backend {
	case BackendDisk:
		m.dir = NewDiskDirectory(m.cfg.Root)
	case BackendJetStream:
		if m.storage == nil {
			return fmt.Errorf("required plugin 'storage' not registered")
		}
		bucket := m.storage.Bucket(m.cfg.Bucket)
		if bucket == nil {
			return fmt.Errorf("bucket '%s' not found in storage plugin", m.cfg.Bucket)
		}
		m.dir = NewBucketDirectory(bucket)
	case BackendNATS:
		m.dir = NewObjectStoreDirectory(m.cfg.NATSURL, m.cfg.Bucket)
	default:
		return fmt.Errorf("unknown storage backend %q", m.cfg.Backend)
	}

	if err := m.dir.EnsureRoot(ctx); err != nil {
		return err
	}

	m.service = NewService(m.dir, NewNameGenerator(time.Now), m.logger)
	m.service.SetNotifier(m)

	m.logger.Info("File service module started", "backend", m.cfg.Backend)
	return nil
}

// Stop gracefully shuts down the module.
func (m *Module) Stop(ctx context.Context) error {
	if store, ok := m.dir.(*ObjectStoreDirectory); ok {
		store.Close()
	}
	m.logger.Info("File service module stopped")
	return nil
}

// Service returns the file service instance.
func (m *Module) Service() *Service {
	return m.service
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	healthy := m.service != nil
	details := map[string]any{"backend": string(m.cfg.Backend)}
	switch m.cfg.Backend {
	case BackendDisk:
		details["root"] = m.cfg.Root
	case BackendNATS:
		details["bucket"] = m.cfg.Bucket
		details["nats_url"] = m.cfg.NATSURL
		if store, ok := m.dir.(*ObjectStoreDirectory); ok {
			healthy = healthy && store.IsConnected()
		}
	default:
		details["bucket"] = m.cfg.Bucket
	}

	message := "operational"
	if !healthy {
		message = "unavailable"
	}
	return mono.HealthStatus{
		Healthy: healthy,
		Message: message,
		Details: details,
	}
}

// FileStored publishes a FileStored event (best-effort, log errors).
func (m *Module) FileStored(file domain.StoredFile) {
	if m.eventBus == nil {
		return
	}
	if err := events.FileStoredV1.Publish(m.eventBus, events.FileStoredEvent{
		ID:           uuid.New().String(),
		Name:         file.Name,
		OriginalName: file.OriginalName,
		Size:         file.Size,
		StoredAt:     file.UploadDate,
	}, nil); err != nil {
		m.logger.Warn("Failed to publish FileStored event", "name", file.Name, "error", err)
	}
}

// FileDeleted publishes a FileDeleted event (best-effort, log errors).
func (m *Module) FileDeleted(name string) {
	if m.eventBus == nil {
		return
	}
	if err := events.FileDeletedV1.Publish(m.eventBus, events.FileDeletedEvent{
		ID:        uuid.New().String(),
		Name:      name,
		DeletedAt: time.Now(),
	}, nil); err != nil {
		m.logger.Warn("Failed to publish FileDeleted event", "name", name, "error", err)
	}
}
