package service

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wedding-planner-api/internal/auth"
	"github.com/wedding-planner-api/internal/config"
	"github.com/wedding-planner-api/internal/listview"
	"github.com/wedding-planner-api/internal/media"
	"github.com/wedding-planner-api/internal/metrics"
	"github.com/wedding-planner-api/internal/models"
	"github.com/wedding-planner-api/internal/seed"
)

// ScreenService defines the interface for the mounted screen registry
type ScreenService interface {
	Mount(kind Kind) (Screen, error)
	Get(id string) (Screen, error)
	Unmount(id string) error
	List() []ScreenInfo
	Reap() int
	StartReaper(ctx context.Context)
	StopReaper()
}

// ExportService defines the interface for export operations
type ExportService interface {
	StreamScreen(ctx context.Context, w http.ResponseWriter, scr Screen, format string) error
	WriteFile(ctx context.Context, scr Screen, format string) (models.FileRef, error)
	Write(ctx context.Context, w io.Writer, table Table, format string) error
}

// MediaService defines the interface for the picker and share sheet
type MediaService interface {
	Pick(ctx context.Context, req media.PickRequest) (models.FileRef, error)
	Share(ctx context.Context, file models.FileRef, opts media.ShareOptions) (models.FileRef, error)
	ShareScreen(ctx context.Context, scr Screen, format string) (models.FileRef, error)
	ShareAvailable() bool
}

// Services holds all service interfaces
type Services struct {
	Screens  ScreenService
	Export   ExportService
	Media    MediaService
	Sessions *auth.Store
}

// Dependencies are the collaborators the services are built over
type Dependencies struct {
	Seed     *seed.Data
	Provider auth.Provider
	Picker   media.Picker
	Sharer   media.Sharer
	// Metrics is optional
	Metrics *metrics.Registry
}

// NewServices creates all services
func NewServices(deps Dependencies, cfg *config.Config, log zerolog.Logger) *Services {
	sessions := auth.NewStore(deps.Provider, log)

	opts := ScreenOptions{
		Seed:       deps.Seed,
		Confirmer:  listview.RequireAnswer,
		MaxScreens: cfg.Server.MaxMountedScreens,
		IdleTTL:    cfg.Server.ScreenIdleTTL,
		Interval:   cfg.Server.ReapInterval,
		Sessions:   sessions,
		SessionTTL: cfg.Server.SessionIdleTTL,
	}
	if deps.Metrics != nil {
		opts.Observer = deps.Metrics
		opts.Gauge = deps.Metrics
	}

	if deps.Picker == nil {
		deps.Picker = media.NewDirPicker(cfg.Media.PickDir, log)
	}
	if deps.Sharer == nil {
		deps.Sharer = media.NewDirSharer(cfg.Media.ShareDir, []string{cfg.Media.PickDir, cfg.Media.ExportDir}, log)
	}

	exportSvc := newExportService(cfg.Media.ExportDir, log)

	return &Services{
		Screens:  newScreenService(opts, log),
		Export:   exportSvc,
		Media:    newMediaService(deps.Picker, deps.Sharer, exportSvc, log),
		Sessions: sessions,
	}
}
