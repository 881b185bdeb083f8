package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/eterea/eterea/internal/domain"
)

// Format is the resolved input format of an import file. It is determined
// once (extension, then header inspection) and dispatched statically.
type Format string

const (
	FormatDeweyCSV   Format = "dewey-csv"
	FormatTwitterCSV Format = "twitter-csv"
	FormatJSON       Format = "twitter-json"
)

// DetectFormat resolves the format of the file at path. Unknown extensions
// and unrecognizable CSV headers are fatal (domain.ErrUnrecognizedFormat).
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return detectCSVFormat(path)
	default:
		return "", fmt.Errorf("%w: extension %q", domain.ErrUnrecognizedFormat, filepath.Ext(path))
	}
}

func detectCSVFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStorageIO, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return "", fmt.Errorf("%w: empty csv file", domain.ErrUnrecognizedFormat)
		}
		return "", fmt.Errorf("%w: unreadable csv header: %v", domain.ErrUnrecognizedFormat, err)
	}

	joined := strings.ToLower(strings.Join(header, ","))
	switch {
	case strings.Contains(joined, "tweet date") || strings.Contains(joined, "posted by"):
		return FormatDeweyCSV, nil
	case strings.Contains(joined, "screen_name") || strings.Contains(joined, "tweeted_at"):
		return FormatTwitterCSV, nil
	default:
		return "", fmt.Errorf("%w: csv headers %q", domain.ErrUnrecognizedFormat, joined)
	}
}

// Parser streams parsed bookmarks from an input file.
//
// Next returns io.EOF when the input is exhausted. A per-record failure is
// returned as a *domain.RowError and the stream remains usable: one bad row
// never aborts the file.
type Parser interface {
	Next() (*domain.Bookmark, error)
}

// NewParser opens a parser for the given format over r.
func NewParser(format Format, r io.Reader) (Parser, error) {
	switch format {
	case FormatDeweyCSV:
		return NewDeweyParser(r)
	case FormatTwitterCSV:
		return NewTwitterCSVParser(r)
	case FormatJSON:
		return NewTwitterJSONParser(r)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnrecognizedFormat, format)
	}
}
