package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eterea/eterea/internal/domain"
	"github.com/eterea/eterea/internal/logger"
	"github.com/eterea/eterea/internal/store/sqlite"
)

func newTestImporter(t *testing.T, batchSize int) (*Importer, *sqlite.Store) {
	t.Helper()
	s, err := sqlite.OpenMemory(logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return NewImporter(s, logger.NewNop(), batchSize), s
}

const mixedDeweyFile = deweyHeader +
	`"02:51 PM, May 01, 2024",Jane,,,janedoe,https://x.com/jane/status/1,first,,,` + "\n" +
	`not a date,Jane,,,janedoe,https://x.com/jane/status/2,broken,,,` + "\n" +
	`"03:05 PM, May 01, 2024",Jane,,,janedoe,https://x.com/jane/status/3,third,,,` + "\n"

func TestImportFile(t *testing.T) {
	im, store := newTestImporter(t, 2)
	path := writeTempFile(t, "export.csv", mixedDeweyFile)

	report, err := im.ImportFile(context.Background(), path, false)
	require.NoError(t, err)

	assert.Equal(t, FormatDeweyCSV, report.Format)
	assert.Equal(t, 3, report.TotalRows)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 0, report.SkippedDuplicates)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 2, report.Errors[0].Row)
	assert.Equal(t, domain.ReasonUnparsableDate, report.Errors[0].Reason)

	_, total, err := store.List(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestImportFileIdempotent(t *testing.T) {
	im, store := newTestImporter(t, 500)
	path := writeTempFile(t, "export.csv", mixedDeweyFile)

	_, err := im.ImportFile(context.Background(), path, false)
	require.NoError(t, err)

	report, err := im.ImportFile(context.Background(), path, false)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Imported)
	assert.Equal(t, 2, report.SkippedDuplicates)

	_, total, err := store.List(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestImportFileInFileDuplicates(t *testing.T) {
	im, store := newTestImporter(t, 500)
	// same post twice in one file, the second with a tracking param
	input := deweyHeader +
		`"02:51 PM, May 01, 2024",Jane,,,janedoe,https://x.com/jane/status/1,first,,,` + "\n" +
		`"02:51 PM, May 01, 2024",Jane,,,janedoe,https://x.com/jane/status/1?utm_source=share,again,,,` + "\n"
	path := writeTempFile(t, "dupes.csv", input)

	report, err := im.ImportFile(context.Background(), path, false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 1, report.SkippedDuplicates)

	_, total, err := store.List(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestImportFileDryRun(t *testing.T) {
	im, store := newTestImporter(t, 500)
	path := writeTempFile(t, "export.csv", mixedDeweyFile)

	report, err := im.ImportFile(context.Background(), path, true)
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 2, report.Imported)
	require.Len(t, report.Errors, 1)

	// nothing written
	_, total, err := store.List(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	// dry-run against existing data reports would-be skips
	_, err = im.ImportFile(context.Background(), path, false)
	require.NoError(t, err)
	report, err = im.ImportFile(context.Background(), path, true)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Imported)
	assert.Equal(t, 2, report.SkippedDuplicates)
}

func TestImportFileUnrecognized(t *testing.T) {
	im, _ := newTestImporter(t, 500)

	_, err := im.ImportFile(context.Background(), writeTempFile(t, "notes.txt", "x"), false)
	assert.ErrorIs(t, err, domain.ErrUnrecognizedFormat)
}

func TestImportFileMissing(t *testing.T) {
	im, _ := newTestImporter(t, 500)

	_, err := im.ImportFile(context.Background(), "/does/not/exist.csv", false)
	assert.Error(t, err)
}

func TestImportFileCancellation(t *testing.T) {
	im, store := newTestImporter(t, 1) // flush per row so cancellation hits a boundary

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := writeTempFile(t, "export.csv", mixedDeweyFile)
	report, err := im.ImportFile(ctx, path, false)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, report.Imported)

	_, total, err := store.List(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestImportFileJSON(t *testing.T) {
	im, _ := newTestImporter(t, 500)
	path := writeTempFile(t, "archive.json",
		`[{"tweet_url": "https://x.com/a/status/1", "screen_name": "a", "tweeted_at": "2024-05-01T14:51:00Z", "full_text": "hi"}]`)

	report, err := im.ImportFile(context.Background(), path, false)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, report.Format)
	assert.Equal(t, 1, report.Imported)
}
