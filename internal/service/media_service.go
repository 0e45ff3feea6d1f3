package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wedding-planner-api/internal/media"
	"github.com/wedding-planner-api/internal/models"
)

// mediaService is the concrete implementation of MediaService
type mediaService struct {
	picker media.Picker
	sharer media.Sharer
	export *exportService
	log    zerolog.Logger
}

func newMediaService(picker media.Picker, sharer media.Sharer, export *exportService, log zerolog.Logger) *mediaService {
	return &mediaService{
		picker: picker,
		sharer: sharer,
		export: export,
		log:    log.With().Str("service", "media").Logger(),
	}
}

// Pick resolves the file the user chose
func (s *mediaService) Pick(ctx context.Context, req media.PickRequest) (models.FileRef, error) {
	ref, err := s.picker.Pick(ctx, req)
	if err != nil {
		return models.FileRef{}, err
	}
	s.log.Debug().Str("name", ref.Name).Str("mime_type", ref.MIMEType).Msg("File picked")
	return ref, nil
}

// Share hands a file to the share sheet
func (s *mediaService) Share(ctx context.Context, file models.FileRef, opts media.ShareOptions) (models.FileRef, error) {
	if !s.sharer.Available() {
		return models.FileRef{}, media.ErrUnavailable
	}
	return s.sharer.Share(ctx, file, opts)
}

// ShareScreen exports the visible records of scr and shares the file
func (s *mediaService) ShareScreen(ctx context.Context, scr Screen, format string) (models.FileRef, error) {
	// nothing is written when there is nowhere to share it
	if !s.sharer.Available() {
		return models.FileRef{}, media.ErrUnavailable
	}

	file, err := s.export.WriteFile(ctx, scr, format)
	if err != nil {
		return models.FileRef{}, err
	}

	shared, err := s.sharer.Share(ctx, file, media.ShareOptions{
		MIMEType:    file.MIMEType,
		DialogTitle: fmt.Sprintf("Share %s", scr.Kind()),
	})
	if err != nil {
		return models.FileRef{}, err
	}

	s.log.Info().Str("screen_id", scr.ID()).Str("file", shared.Name).Msg("Screen shared")
	return shared, nil
}

// ShareAvailable reports whether the share sheet can be used
func (s *mediaService) ShareAvailable() bool {
	return s.sharer.Available()
}
