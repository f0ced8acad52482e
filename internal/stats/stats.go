// Package stats keeps the local terminal player's tally across runs in BadgerDB.
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const appName = "checkers"

// Storage keys
const (
	keyTally = "tally"
)

// Tally is the running record of finished rounds and captures
type Tally struct {
	RoundsPlayed  int       `json:"rounds_played"`
	RedWins       int       `json:"red_wins"`
	BlackWins     int       `json:"black_wins"`
	RedCaptures   int       `json:"red_captures"`
	BlackCaptures int       `json:"black_captures"`
	Restarts      int       `json:"restarts"`
	LastPlayed    time.Time `json:"last_played"`
}

// RedWinRate returns the share of rounds won by red, as a percentage (0-100)
func (t *Tally) RedWinRate() float64 {
	if t.RoundsPlayed == 0 {
		return 0
	}
	return float64(t.RedWins) / float64(t.RoundsPlayed) * 100
}

// Store wraps BadgerDB for the tally
type Store struct {
	db *badger.DB
}

// DefaultDir returns the per-user data directory: $XDG_DATA_HOME/checkers/stats
// or ~/.local/share/checkers/stats
func DefaultDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, appName, "stats"), nil
}

// Open opens or creates the tally database in dir
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create stats dir: %w", err)
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open stats db: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load returns the tally, empty if none was saved yet
func (s *Store) Load() (*Tally, error) {
	tally := &Tally{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyTally))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, tally)
		})
	})

	return tally, err
}

// update applies fn to the stored tally inside one read-write transaction
func (s *Store) update(fn func(*Tally)) error {
	return s.db.Update(func(txn *badger.Txn) error {
		tally := &Tally{}

		item, err := txn.Get([]byte(keyTally))
		switch {
		case err == badger.ErrKeyNotFound:
		case err != nil:
			return err
		default:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, tally)
			}); err != nil {
				return err
			}
		}

		fn(tally)
		tally.LastPlayed = time.Now()

		data, err := json.Marshal(tally)
		if err != nil {
			return err
		}
		return txn.Set([]byte(keyTally), data)
	})
}

// RecordCapture counts a capture made by color ("red" or "black")
func (s *Store) RecordCapture(by string) error {
	return s.update(func(t *Tally) {
		switch by {
		case "red":
			t.RedCaptures++
		case "black":
			t.BlackCaptures++
		}
	})
}

// RecordRound counts a finished round won by winner ("red" or "black")
func (s *Store) RecordRound(winner string) error {
	return s.update(func(t *Tally) {
		t.RoundsPlayed++
		switch winner {
		case "red":
			t.RedWins++
		case "black":
			t.BlackWins++
		}
	})
}

// RecordRestart counts an abandoned round
func (s *Store) RecordRestart() error {
	return s.update(func(t *Tally) {
		t.Restarts++
	})
}

// Reset clears the tally
func (s *Store) Reset() error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(keyTally))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
}
