package httpserver

import "time"

// MessageResponse is the body of every plain status or error response.
type MessageResponse struct {
	Message string `json:"message"`
}

// UploadResponse is returned after a successful upload.
type UploadResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

// FileResponse describes one stored file in a listing.
type FileResponse struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	UploadDate time.Time `json:"uploadDate"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string         `json:"status"`
	Service string         `json:"service"`
	Storage map[string]any `json:"storage,omitempty"`
}

const (
	msgServerUp        = "Server is up and running!"
	msgUploaded        = "File uploaded successfully"
	msgNoFile          = "No file uploaded"
	msgTooLarge        = "File too large"
	msgUploadAborted   = "Upload aborted"
	msgInvalidFilename = "Invalid filename"
	msgNotFound        = "File not found"
	msgDeleted         = "File deleted successfully"
	msgDownloadFailed  = "Error downloading file"
	msgInternal        = "Internal server error"
	msgStatsDown       = "Activity service unavailable"
)
