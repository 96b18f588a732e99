package fileservice

import "errors"

// Sentinel errors for file service operations.
var (
	// ErrNoFile is returned when an upload carries no file or no file name.
	ErrNoFile = errors.New("no file supplied")

	// ErrFileNotFound is returned when the requested file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidFilename is returned when a file identifier is malformed or
	// would resolve outside the storage directory.
	ErrInvalidFilename = errors.New("invalid filename")

	// ErrUploadAborted is returned when the upload stream failed or was
	// cancelled before it was fully read.
	ErrUploadAborted = errors.New("upload aborted")

	// ErrStorageFailure is returned for any unexpected storage medium error.
	ErrStorageFailure = errors.New("storage failure")
)
