package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	activitymod "github.com/example/file-storage-service/modules/activity"
	fileservicemod "github.com/example/file-storage-service/modules/fileservice"
	httpservermod "github.com/example/file-storage-service/modules/httpserver"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	fsjetstream "github.com/go-monolith/mono/plugin/fs-jetstream"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration from environment
	httpPort := getEnvInt("PORT", 3001)
	maxUploadSize := getEnvInt64("MAX_UPLOAD_SIZE", 100*1024*1024) // 100MB default
	storagePath := getEnv("STORAGE_PATH", "uploads")
	jetstreamDir := getEnv("JETSTREAM_DIR", "/tmp/file-storage-service")
	natsURL := getEnv("NATS_URL", fileservicemod.DefaultNATSURL)

	backend, err := fileservicemod.ParseBackend(os.Getenv("STORAGE_BACKEND"))
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Println("=== File Storage Service ===")
	log.Printf("HTTP Port: %d", httpPort)
	log.Printf("Max Upload Size: %d bytes", maxUploadSize)
	log.Printf("Storage Backend: %s", backend)
	switch backend {
	case fileservicemod.BackendDisk:
		log.Printf("Storage Path: %s", storagePath)
	case fileservicemod.BackendNATS:
		log.Printf("NATS URL: %s", natsURL)
	}

	// Create mono application with embedded NATS JetStream
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
		mono.WithJetStreamStorageDir(jetstreamDir),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	// The object store bucket is only needed by the jetstream backend.
	// The framework will call SetPlugin("storage", storagePlugin) on modules
	// that implement UsePluginModule interface
	if backend == fileservicemod.BackendJetStream {
		storagePlugin, err := fsjetstream.New(fsjetstream.Config{
			Buckets: []fsjetstream.BucketConfig{
				{
					Name:        fileservicemod.DefaultBucket,
					Description: "Uploaded files",
					MaxBytes:    1024 * 1024 * 1024, // 1GB max storage
					Storage:     fsjetstream.FileStorage,
					Compression: true,
				},
			},
		})
		if err != nil {
			log.Fatalf("Failed to create storage plugin: %v", err)
		}

		if err := app.RegisterPlugin(storagePlugin, "storage"); err != nil {
			log.Fatalf("Failed to register storage plugin: %v", err)
		}
	}

	// Create modules
	activityModule := activitymod.NewModule(app.Logger())
	fileServiceModule := fileservicemod.NewModule(fileservicemod.Config{
		Backend: backend,
		Root:    storagePath,
		Bucket:  fileservicemod.DefaultBucket,
		NATSURL: natsURL,
	}, app.Logger())
	httpServerModule := httpservermod.NewModule(httpPort, maxUploadSize, app.Logger())

	// Wire up dependencies
	httpServerModule.SetFileModule(fileServiceModule)

	// Register modules. Start order follows each module's Dependencies.
	app.Register(activityModule)
	app.Register(fileServiceModule)
	app.Register(httpServerModule)

	// Start the application
	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	log.Println("=== Application Started ===")
	log.Printf("API available at http://localhost:%d", httpPort)
	log.Println("Endpoints:")
	log.Println("  GET    /ping                 - Liveness check")
	log.Println("  GET    /health               - Health check")
	log.Println("  POST   /upload               - Upload a file (multipart field 'file')")
	log.Println("  GET    /files                - List all files")
	log.Println("  GET    /files/:filename      - View a file")
	log.Println("  GET    /uploads/:filename    - View a file")
	log.Println("  GET    /download/:filename   - Download a file")
	log.Println("  DELETE /files/:filename      - Delete a file")
	log.Println("  GET    /stats                - Upload and delete activity")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown")

	// Setup graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	// Wait for shutdown signal
	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvInt64 returns environment variable as int64 or default.
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int64 value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}
