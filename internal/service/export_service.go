package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/wedding-planner-api/internal/media"
	"github.com/wedding-planner-api/internal/models"
)

// Export formats
const (
	FormatNDJSON = "ndjson"
	FormatJSON   = "json"
	FormatCSV    = "csv"
	FormatXLSX   = "xlsx"
)

var contentTypes = map[string]string{
	FormatNDJSON: "application/x-ndjson",
	FormatJSON:   "application/json",
	FormatCSV:    "text/csv",
	FormatXLSX:   "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ContentType returns the MIME type of an export format
func ContentType(format string) (string, bool) {
	ct, ok := contentTypes[format]
	return ct, ok
}

// exportService is the concrete implementation of ExportService
type exportService struct {
	dir string
	now func() time.Time
	log zerolog.Logger
}

// newExportService creates a new ExportService writing files under dir
func newExportService(dir string, log zerolog.Logger) *exportService {
	return &exportService{
		dir: dir,
		now: time.Now,
		log: log.With().Str("service", "export").Logger(),
	}
}

// StreamScreen streams the visible records of a screen as an attachment
func (s *exportService) StreamScreen(ctx context.Context, w http.ResponseWriter, scr Screen, format string) error {
	ct, ok := ContentType(format)
	if !ok {
		return fmt.Errorf("unsupported format: %s", format)
	}

	table := scr.Table()
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.%s", table.Name, format))

	return s.Write(ctx, w, table, format)
}

// WriteFile exports the visible records of a screen to a new file in the
// export directory and describes it
func (s *exportService) WriteFile(ctx context.Context, scr Screen, format string) (models.FileRef, error) {
	ct, ok := ContentType(format)
	if !ok {
		return models.FileRef{}, fmt.Errorf("unsupported format: %s", format)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return models.FileRef{}, fmt.Errorf("failed to create export directory: %w", err)
	}

	table := scr.Table()
	name := fmt.Sprintf("%s-%s-%s.%s", table.Name, s.now().UTC().Format("20060102-150405"), uuid.New().String()[:8], format)
	path := filepath.Join(s.dir, name)

	file, err := os.Create(path)
	if err != nil {
		return models.FileRef{}, fmt.Errorf("failed to create export file: %w", err)
	}

	if err := s.Write(ctx, file, table, format); err != nil {
		file.Close()
		os.Remove(path)
		return models.FileRef{}, err
	}
	if err := file.Close(); err != nil {
		return models.FileRef{}, fmt.Errorf("failed to close export file: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return models.FileRef{}, fmt.Errorf("failed to stat export file: %w", err)
	}

	return models.FileRef{
		URI:      media.FileURI(path),
		Name:     name,
		Size:     info.Size(),
		MIMEType: ct,
	}, nil
}

// Write encodes table to w in the given format
func (s *exportService) Write(ctx context.Context, w io.Writer, table Table, format string) error {
	s.log.Info().Str("screen", table.Name).Str("format", format).Int("count", len(table.Rows)).Msg("Starting export")

	var err error
	switch format {
	case FormatNDJSON:
		err = s.writeNDJSON(ctx, w, table)
	case FormatJSON:
		err = s.writeJSON(ctx, w, table)
	case FormatCSV:
		err = s.writeCSV(ctx, w, table)
	case FormatXLSX:
		err = s.writeXLSX(w, table)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	if err != nil {
		s.log.Error().Err(err).Str("screen", table.Name).Msg("Export failed")
		return err
	}
	s.log.Info().Str("screen", table.Name).Msg("Export completed")
	return nil
}

func (s *exportService) writeNDJSON(ctx context.Context, w io.Writer, table Table) error {
	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)

	for i, rec := range table.Records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}

		// Flush every 100 records for streaming
		if (i+1)%100 == 0 && flusher != nil {
			flusher.Flush()
		}
	}
	return nil
}

func (s *exportService) writeJSON(ctx context.Context, w io.Writer, table Table) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}

	for i, rec := range table.Records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "]")
	return err
}

func (s *exportService) writeCSV(ctx context.Context, w io.Writer, table Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(table.Header); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func (s *exportService) writeXLSX(w io.Writer, table Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := table.Name
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &table.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	return f.Write(w)
}
