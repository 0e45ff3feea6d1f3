// Package media models the device file picker and share sheet. Both are
// capabilities the host supplies; the filesystem implementations here serve
// a picker directory and a share directory.
package media

import (
	"context"
	"errors"

	"github.com/wedding-planner-api/internal/models"
)

var (
	// ErrCancelled is returned when the user dismisses the picker
	ErrCancelled = errors.New("pick cancelled")
	// ErrUnavailable is returned when sharing is not available on this device
	ErrUnavailable = errors.New("sharing is not available on this device")
	// ErrNotFound is returned when the picked file does not exist
	ErrNotFound = errors.New("file not found")
	// ErrUnsupportedType is returned when the picked file is not an accepted type
	ErrUnsupportedType = errors.New("unsupported file type")
)

// PickRequest selects one file
type PickRequest struct {
	// Name is the file the user chose. Empty means the picker was dismissed.
	Name string `json:"name"`
	// Accept lists the allowed MIME types. Empty accepts anything.
	Accept []string `json:"accept,omitempty"`
}

// Picker hands the application a file chosen by the user
type Picker interface {
	Pick(ctx context.Context, req PickRequest) (models.FileRef, error)
}

// ShareOptions decorates the share sheet
type ShareOptions struct {
	MIMEType    string `json:"mime_type,omitempty"`
	DialogTitle string `json:"dialog_title,omitempty"`
}

// Sharer passes a file to the platform share sheet
type Sharer interface {
	Available() bool
	Share(ctx context.Context, file models.FileRef, opts ShareOptions) (models.FileRef, error)
}
