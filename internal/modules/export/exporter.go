package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/shivvp96/LeapFinder/internal/modules/screener"
)

// FileExporter writes a run's CSV and summary artifacts into the export
// directory and optionally mirrors them to an S3-compatible bucket.
// It satisfies screener.Exporter.
type FileExporter struct {
	dir      string
	uploader *S3Uploader // optional, nil disables uploads
	log      zerolog.Logger
}

// NewFileExporter creates a file exporter rooted at dir.
func NewFileExporter(dir string, uploader *S3Uploader, log zerolog.Logger) (*FileExporter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &FileExporter{
		dir:      dir,
		uploader: uploader,
		log:      log.With().Str("service", "export").Logger(),
	}, nil
}

// Export writes <run-id>.csv and <run-id>.txt, then uploads both when an
// uploader is configured. Upload failures do not fail the export; the
// local artifacts are the primary deliverable.
func (e *FileExporter) Export(ctx context.Context, run screener.Run, records []screener.Record) error {
	var csvBuf bytes.Buffer
	if err := WriteCSV(&csvBuf, records); err != nil {
		return err
	}

	var summaryBuf bytes.Buffer
	if err := WriteSummary(&summaryBuf, run, records); err != nil {
		return err
	}

	artifacts := map[string][]byte{
		run.ID + ".csv": csvBuf.Bytes(),
		run.ID + ".txt": summaryBuf.Bytes(),
	}

	for name, body := range artifacts {
		path := filepath.Join(e.dir, name)
		if err := os.WriteFile(path, body, 0644); err != nil {
			return fmt.Errorf("failed to write export %s: %w", name, err)
		}
		e.log.Debug().Str("path", path).Int("bytes", len(body)).Msg("Export artifact written")
	}

	if e.uploader != nil {
		for name, body := range artifacts {
			if err := e.uploader.Upload(ctx, "exports/"+name, body); err != nil {
				e.log.Warn().Err(err).Str("artifact", name).Msg("Export upload failed")
			}
		}
	}

	return nil
}
