package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/file-storage-service/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// SummaryService is the request-reply service name exposed by this module.
const SummaryService = "activity-summary"

// Module consumes file lifecycle events and keeps an activity summary.
type Module struct {
	store  *Store
	logger types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
)

// NewModule creates a new activity module.
func NewModule(logger types.Logger) *Module {
	return &Module{
		store:  NewStore(DefaultRecentLimit),
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "activity"
}

// RegisterEventConsumers registers handlers for file lifecycle events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	storedDef, ok := registry.GetEventByName("FileStored", "v1", "fileservice")
	if !ok {
		return fmt.Errorf("event FileStored.v1 not found")
	}
	if err := registry.RegisterEventConsumer(storedDef, m.handleFileStored, m); err != nil {
		return fmt.Errorf("failed to register FileStored consumer: %w", err)
	}

	deletedDef, ok := registry.GetEventByName("FileDeleted", "v1", "fileservice")
	if !ok {
		return fmt.Errorf("event FileDeleted.v1 not found")
	}
	if err := registry.RegisterEventConsumer(deletedDef, m.handleFileDeleted, m); err != nil {
		return fmt.Errorf("failed to register FileDeleted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers", "events", []string{"FileStored.v1", "FileDeleted.v1"})
	return nil
}

// RegisterServices registers the activity-summary service.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		SummaryService,
		json.Unmarshal,
		json.Marshal,
		m.handleSummary,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", SummaryService, err)
	}

	m.logger.Info("Registered services", "services", SummaryService)
	return nil
}

// Start initializes the activity module.
func (m *Module) Start(ctx context.Context) error {
	m.logger.Info("Activity module started")
	return nil
}

// Stop gracefully shuts down the module.
func (m *Module) Stop(ctx context.Context) error {
	m.logger.Info("Activity module stopped")
	return nil
}

// Store returns the activity store.
func (m *Module) Store() *Store {
	return m.store
}

func (m *Module) handleFileStored(_ context.Context, msg *mono.Msg) error {
	var event events.FileStoredEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		m.logger.Error("Failed to unmarshal FileStored event", "error", err)
		return nil // Don't retry on unmarshal errors
	}

	m.store.RecordStored(event.Name, event.Size, event.StoredAt)
	m.logger.Info("Recorded upload", "name", event.Name, "size", event.Size)
	return nil
}

func (m *Module) handleFileDeleted(_ context.Context, msg *mono.Msg) error {
	var event events.FileDeletedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		m.logger.Error("Failed to unmarshal FileDeleted event", "error", err)
		return nil // Don't retry on unmarshal errors
	}

	m.store.RecordDeleted(event.Name, event.DeletedAt)
	m.logger.Info("Recorded delete", "name", event.Name)
	return nil
}

func (m *Module) handleSummary(_ context.Context, req SummaryRequest, _ *mono.Msg) (Summary, error) {
	summary := m.store.Summary()
	if req.Limit > 0 && req.Limit < len(summary.Recent) {
		summary.Recent = summary.Recent[:req.Limit]
	}
	return summary, nil
}
