package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
)

// requestIDHeader carries the per-request correlation id.
const requestIDHeader = "X-Request-ID"

// NewRouter builds the HTTP handler serving all routes.
//
// Routing happens on the escaped request path and route parameters are left
// escaped, so the file service decodes client identifiers exactly once.
func NewRouter(h *Handlers, logger types.Logger) http.Handler {
	engine := gin.New()
	engine.UseRawPath = true
	engine.UnescapePathValues = false

	engine.Use(gin.Recovery())
	engine.Use(requestIDMiddleware())
	engine.Use(loggingMiddleware(logger))
	engine.Use(corsMiddleware())

	engine.GET("/ping", h.Ping)
	engine.GET("/health", h.HealthCheck)
	engine.GET("/stats", h.Stats)

	engine.POST("/upload", h.UploadFile)
	engine.GET("/files", h.ListFiles)
	engine.GET("/files/:filename", h.GetFile)
	engine.DELETE("/files/:filename", h.DeleteFile)
	engine.GET("/uploads/:filename", h.GetFile)
	engine.GET("/download/:filename", h.DownloadFile)

	return escapedPath(engine)
}

// escapedPath makes RawPath always populated, since net/http only sets it
// when the escaping differs from the default encoding.
func escapedPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.RawPath = r.URL.EscapedPath()
		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware reuses an incoming request id or generates one.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// loggingMiddleware provides request logging.
func loggingMiddleware(logger types.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		logger.Info("HTTP request",
			"request_id", c.GetString("request_id"),
			"method", method,
			"path", path,
			"status", status,
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}

// corsMiddleware adds permissive CORS headers.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
