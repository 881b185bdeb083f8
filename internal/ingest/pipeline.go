package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/eterea/eterea/internal/domain"
	"github.com/eterea/eterea/internal/logger"
)

// Store is what the pipeline needs from the storage engine. InsertBatch
// commits one batch atomically and skips records whose dedup key already
// exists; the existence check runs inside the same transaction.
type Store interface {
	InsertBatch(ctx context.Context, batch []*domain.Bookmark) (inserted, skipped int, err error)
	ExistingURLKeys(ctx context.Context, keys []string) (map[string]bool, error)
}

// Report is the outcome of one import call.
type Report struct {
	Path              string             `json:"path"`
	Format            Format             `json:"format"`
	DryRun            bool               `json:"dry_run"`
	TotalRows         int                `json:"total_rows"`
	Imported          int                `json:"imported"`
	SkippedDuplicates int                `json:"skipped_duplicates"`
	Errors            []*domain.RowError `json:"errors"`
}

// Importer drives an import: format detection, streaming parse, dedup and
// batched commits. Row errors are collected, never fatal; only an unopenable
// file or an undetectable format aborts the call.
type Importer struct {
	store     Store
	log       logger.Logger
	batchSize int
}

func NewImporter(store Store, log logger.Logger, batchSize int) *Importer {
	if batchSize < 1 {
		batchSize = 500
	}
	return &Importer{store: store, log: log, batchSize: batchSize}
}

// ImportFile imports the file at path. In dry-run mode the identical
// parse/dedup logic runs but no writes are issued.
//
// Cancellation is honored at batch boundaries: already-committed batches
// remain, the rest of the file is abandoned and ctx.Err() is returned
// alongside the partial report.
func (im *Importer) ImportFile(ctx context.Context, path string, dryRun bool) (*Report, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrStorageIO, path, err)
	}
	defer f.Close()

	parser, err := NewParser(format, f)
	if err != nil {
		return nil, err
	}

	report := &Report{Path: path, Format: format, DryRun: dryRun, Errors: []*domain.RowError{}}
	im.log.Info("starting import",
		logger.String("path", path),
		logger.String("format", string(format)),
		logger.Bool("dry_run", dryRun))

	seen := make(map[string]bool)
	batch := make([]*domain.Bookmark, 0, im.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		inserted, skipped, err := im.commitBatch(ctx, batch, dryRun)
		if err != nil {
			return err
		}
		report.Imported += inserted
		report.SkippedDuplicates += skipped
		batch = batch[:0]
		return nil
	}

	for {
		b, err := parser.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			var rowErr *domain.RowError
			if errors.As(err, &rowErr) {
				report.TotalRows++
				report.Errors = append(report.Errors, rowErr)
				im.log.Debug("rejected row",
					logger.Int("row", rowErr.Row),
					logger.String("reason", string(rowErr.Reason)))
				continue
			}
			// Not row-scoped: the file itself is unusable past this point.
			return report, err
		}

		report.TotalRows++

		key := domain.URLKey(b.TweetURL)
		if seen[key] {
			report.SkippedDuplicates++
			continue
		}
		seen[key] = true

		batch = append(batch, b)
		if len(batch) >= im.batchSize {
			if err := flush(); err != nil {
				return report, err
			}
		}
	}

	if err := flush(); err != nil {
		return report, err
	}

	im.log.Info("import finished",
		logger.String("path", path),
		logger.Int("total", report.TotalRows),
		logger.Int("imported", report.Imported),
		logger.Int("skipped", report.SkippedDuplicates),
		logger.Int("errors", len(report.Errors)))

	return report, nil
}

func (im *Importer) commitBatch(ctx context.Context, batch []*domain.Bookmark, dryRun bool) (inserted, skipped int, err error) {
	if !dryRun {
		return im.store.InsertBatch(ctx, batch)
	}

	keys := make([]string, len(batch))
	for i, b := range batch {
		keys[i] = domain.URLKey(b.TweetURL)
	}
	existing, err := im.store.ExistingURLKeys(ctx, keys)
	if err != nil {
		return 0, 0, err
	}
	for _, k := range keys {
		if existing[k] {
			skipped++
		} else {
			inserted++
		}
	}
	return inserted, skipped, nil
}
