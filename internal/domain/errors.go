package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an id does not exist in storage.
	ErrNotFound = errors.New("bookmark not found")

	// ErrStorageBusy is a transient lock-wait failure. The storage engine
	// retries it internally with bounded backoff before surfacing it.
	ErrStorageBusy = errors.New("storage busy")

	// ErrStorageIO is a durable storage failure (disk full, permission
	// denied). Never retried.
	ErrStorageIO = errors.New("storage io failure")

	// ErrUnrecognizedFormat is fatal for an import call: the file format
	// could not be determined. No partial effect.
	ErrUnrecognizedFormat = errors.New("unrecognized import format")
)

// RowReason is the reason code of a per-record ingestion failure.
type RowReason string

const (
	ReasonMissingField   RowReason = "MissingField"
	ReasonUnparsableDate RowReason = "UnparsableDate"
	ReasonMalformedMedia RowReason = "MalformedMedia"
	ReasonEncodingError  RowReason = "EncodingError"
)

// RowError reports a single rejected record. It is collected in the import
// summary and never aborts the containing batch or file.
type RowError struct {
	// Row is the 1-based data row index for CSV sources, or the 0-based
	// element index for JSON sources.
	Row int `json:"row"`

	Reason RowReason `json:"reason"`

	// Fragment carries the raw offending input for diagnostics.
	Fragment string `json:"fragment,omitempty"`
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s (%q)", e.Row, e.Reason, e.Fragment)
}

// NewRowError builds a RowError, truncating the fragment to keep import
// summaries bounded.
func NewRowError(row int, reason RowReason, fragment string) *RowError {
	const maxFragment = 200
	if len(fragment) > maxFragment {
		fragment = fragment[:maxFragment]
	}
	return &RowError{Row: row, Reason: reason, Fragment: fragment}
}
