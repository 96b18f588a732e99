package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/example/file-storage-service/modules/activity"
	"github.com/example/file-storage-service/modules/fileservice"
	"github.com/gin-gonic/gin"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// Module implements an HTTP server using the Gin framework.
type Module struct {
	port          int
	server        *http.Server
	handlers      *Handlers
	fileModule    *fileservice.Module
	activity      activity.ActivityPort
	logger        types.Logger
	maxUploadSize int64
}

// Compile-time interface checks
var (
	_ mono.Module          = (*Module)(nil)
	_ mono.DependentModule = (*Module)(nil)
)

// NewModule creates a new HTTP server module.
func NewModule(port int, maxUploadSize int64, logger types.Logger) *Module {
	return &Module{
		port:          port,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "http-server"
}

// Dependencies returns the list of module dependencies.
// fileservice exposes no services; it is listed so its Start runs first.
func (m *Module) Dependencies() []string {
	return []string{"activity", "fileservice"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "activity":
		m.activity = activity.NewActivityAdapter(container)
	}
}

// SetFileModule sets the file service module dependency.
func (m *Module) SetFileModule(fileModule *fileservice.Module) {
	m.fileModule = fileModule
}

// Start initializes and starts the HTTP server.
func (m *Module) Start(ctx context.Context) error {
	if m.fileModule == nil || m.fileModule.Service() == nil {
		return fmt.Errorf("fileservice module not set or not started")
	}

	gin.SetMode(gin.ReleaseMode)

	m.handlers = NewHandlers(m.fileModule.Service(), m.maxUploadSize, m.logger)
	m.handlers.SetHealthReporter(m.fileModule)
	if m.activity != nil {
		m.handlers.SetActivity(m.activity)
	}

	m.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", m.port),
		Handler:           NewRouter(m.handlers, m.logger),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		m.logger.Info("HTTP server starting", "port", m.port)
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("HTTP server error", "error", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (m *Module) Stop(ctx context.Context) error {
	if m.server != nil {
		m.logger.Info("Shutting down HTTP server")
		return m.server.Shutdown(ctx)
	}
	return nil
}
