package activity

import "time"

// Kind identifies what happened to a file.
type Kind string

const (
	KindStored  Kind = "stored"
	KindDeleted Kind = "deleted"
)

// Activity is a single recorded storage change.
type Activity struct {
	Kind Kind      `json:"kind"`
	Name string    `json:"name"`
	Size int64     `json:"size,omitempty"`
	At   time.Time `json:"at"`
}

// Summary is the response of the activity-summary service.
type Summary struct {
	Uploads       int        `json:"uploads"`
	Deletes       int        `json:"deletes"`
	BytesUploaded int64      `json:"bytes_uploaded"`
	Recent        []Activity `json:"recent"`
}

// SummaryRequest is the request of the activity-summary service.
type SummaryRequest struct {
	Limit int `json:"limit,omitempty"`
}
