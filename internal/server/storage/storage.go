package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const (
	writeQueueSize  = 1000
	maxOpenConns    = 25
	maxIdleConns    = 5
	shutdownTimeout = 2 * time.Second

	flushPollInterval = 10 * time.Millisecond
)

// ErrQueueFull is returned when an async write is dropped because the queue is full
var ErrQueueFull = errors.New("storage write queue full")

// ErrDegraded is returned by Flush once a write has failed
var ErrDegraded = errors.New("storage degraded")

// Store handles SQLite persistence of games and round results; all writes are async
type Store struct {
	db           *sql.DB
	path         string
	writeChan    chan func(*sql.Tx) error
	healthStatus atomic.Bool
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	closeOnce    sync.Once
	closed       atomic.Bool
}

// NewStore creates a new storage instance with async writer
func NewStore(dataSourceName string, devMode bool) (*Store, error) {
	// Foreign keys are per connection in SQLite, so they go in the DSN for the whole pool
	dsn := dataSourceName
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL in development so the db CLI can read while the server writes
	if devMode {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)

	ctx, cancel := context.WithCancel(context.Background())

	s := &Store{
		db:        db,
		path:      dataSourceName,
		writeChan: make(chan func(*sql.Tx) error, writeQueueSize),
		ctx:       ctx,
		cancel:    cancel,
	}

	s.healthStatus.Store(true)

	s.wg.Add(1)
	go s.writerLoop()

	return s, nil
}

// IsHealthy returns true if the storage is operational
func (s *Store) IsHealthy() bool {
	return s.healthStatus.Load()
}

// writerLoop processes async write operations
func (s *Store) writerLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			// Drain remaining writes with timeout
			deadline := time.After(shutdownTimeout)
			for {
				select {
				case fn := <-s.writeChan:
					if s.healthStatus.Load() {
						s.executeWrite(fn)
					}
				case <-deadline:
					return
				default:
					return
				}
			}

		case fn := <-s.writeChan:
			// Skip if already degraded
			if !s.healthStatus.Load() {
				continue
			}
			s.executeWrite(fn)
		}
	}
}

// executeWrite runs a transactional write operation
func (s *Store) executeWrite(fn func(*sql.Tx) error) {
	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("Storage degraded: failed to begin transaction: %v", err)
		s.healthStatus.Store(false)
		return
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		log.Printf("Storage degraded: write operation failed: %v", err)
		s.healthStatus.Store(false)
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("Storage degraded: failed to commit: %v", err)
		s.healthStatus.Store(false)
		return
	}
}

// enqueue hands a write to the writer goroutine without blocking the caller
func (s *Store) enqueue(what string, fn func(*sql.Tx) error) error {
	if !s.healthStatus.Load() {
		return nil // Silently drop if degraded
	}

	select {
	case s.writeChan <- fn:
		return nil
	default:
		log.Printf("Storage write queue full, dropping %s", what)
		return ErrQueueFull
	}
}

// Flush waits until every write queued before the call has been executed
func (s *Store) Flush(ctx context.Context) error {
	done := make(chan struct{})
	err := s.enqueue("flush marker", func(*sql.Tx) error {
		close(done)
		return nil
	})
	if err != nil {
		return err
	}

	// A degraded writer skips the marker, so poll health while waiting
	ticker := time.NewTicker(flushPollInterval)
	defer ticker.Stop()
	for {
		if !s.healthStatus.Load() {
			return ErrDegraded
		}
		select {
		case <-done:
			return nil
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close gracefully closes the database connection
func (s *Store) Close() error {
	s.closeOnce.Do(s.cancel)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		// Writer finished cleanly
	case <-time.After(shutdownTimeout):
		log.Printf("Warning: storage writer shutdown timeout, some writes may be lost")
	}

	if s.db != nil && s.closed.CompareAndSwap(false, true) {
		return s.db.Close()
	}
	return nil
}

// InitDB creates the database schema
func (s *Store) InitDB() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return tx.Commit()
}

// DeleteDB removes the database file
func (s *Store) DeleteDB() error {
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	// Destructive: removes the database file and its WAL companions
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete database file: %w", err)
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(s.path + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete %s file: %w", suffix, err)
		}
	}

	return nil
}