// Package sqlite is the storage engine: a single SQLite database file with
// an FTS5 full-text index kept transactionally consistent with the bookmark
// rows. Requires building with -tags sqlite_fts5.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/eterea/eterea/internal/domain"
	"github.com/eterea/eterea/internal/logger"
)

// Options tunes open behavior and the write retry policy.
type Options struct {
	// BusyTimeout is handed to SQLite as its own busy handler window.
	BusyTimeout time.Duration

	// WriteRetries bounds store-level retries after SQLITE_BUSY escapes the
	// busy handler. Durable failures are never retried.
	WriteRetries int

	// RetryBackoff is the initial retry interval.
	RetryBackoff time.Duration
}

func (o Options) withDefaults() Options {
	if o.BusyTimeout <= 0 {
		o.BusyTimeout = 5 * time.Second
	}
	if o.WriteRetries <= 0 {
		o.WriteRetries = 3
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = 100 * time.Millisecond
	}
	return o
}

// Store owns the database handle. Writes are serialized through a mutex so
// concurrent imports and favorite toggles never contend at the SQLite level;
// reads go straight to the pool.
type Store struct {
	db   *sqlx.DB
	log  logger.Logger
	opts Options

	writeMu sync.Mutex
}

// Open opens (creating if needed) the database at path, applies the
// session pragmas and runs the schema. The parent directory is created
// on first use.
func Open(path string, log logger.Logger, opts Options) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", domain.ErrStorageIO, err)
	}

	opts = opts.withDefaults()
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_txlock=immediate&_foreign_keys=on",
		path, opts.BusyTimeout.Milliseconds())

	return open(dsn, log, opts, 0)
}

// OpenMemory opens a throwaway in-memory database, used by tests. The pool
// is pinned to one connection so every statement sees the same database.
func OpenMemory(log logger.Logger) (*Store, error) {
	return open("file::memory:?_foreign_keys=on", log, Options{}.withDefaults(), 1)
}

func open(dsn string, log logger.Logger, opts Options, maxConns int) (*Store, error) {
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", domain.ErrStorageIO, err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}

	s := &Store{db: db, log: log, opts: opts}

	if _, err := db.Exec(pragmas); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: apply pragmas: %v", domain.ErrStorageIO, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: apply schema: %v", domain.ErrStorageIO, err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database handle is usable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// withWriteTx runs fn in a write transaction, serialized behind the write
// mutex. SQLITE_BUSY results roll back and retry with exponential backoff up
// to WriteRetries times; everything else fails permanently.
func (s *Store) withWriteTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	attempt := func() error {
		tx, err := s.db.BeginTxx(ctx, nil)
		if err != nil {
			return classifyWriteErr(err)
		}
		if err := fn(tx); err != nil {
			_ = tx.Rollback()
			return classifyWriteErr(err)
		}
		if err := tx.Commit(); err != nil {
			return classifyWriteErr(err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.opts.RetryBackoff
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(s.opts.WriteRetries)), ctx)

	return backoff.Retry(func() error {
		err := attempt()
		if err != nil && errors.Is(err, domain.ErrStorageBusy) {
			s.log.Warn("database busy, retrying write", logger.Error(err))
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}, policy)
}

// classifyWriteErr maps driver errors onto the domain sentinels: lock
// contention is retryable, anything else from the driver is a durable
// storage failure. Domain errors pass through untouched.
func classifyWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrStorageBusy) || errors.Is(err, domain.ErrStorageIO) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return fmt.Errorf("%w: %v", domain.ErrStorageBusy, err)
		default:
			return fmt.Errorf("%w: %v", domain.ErrStorageIO, err)
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrStorageIO, err)
}

func classifyReadErr(err error) error {
	if err == nil {
		return nil
	}
	return classifyWriteErr(err)
}
