package deps

import (
	"time"

	"github.com/eterea/eterea/internal/ingest"
	"github.com/eterea/eterea/internal/logger"
	"github.com/eterea/eterea/internal/preview"
	"github.com/eterea/eterea/internal/store/sqlite"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	Store    *sqlite.Store    // bookmark storage engine
	Importer *ingest.Importer // file ingestion pipeline
	Preview  *preview.Fetcher // link preview fetcher (nil disables the route)

	DefaultPageSize int // page size when the client sends no limit
	MaxPageSize     int // hard cap for list pagination
	MaxSearchLimit  int // hard cap for search/filter result sets
}
