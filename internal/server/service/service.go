package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"checkers/internal/server/game"
	"checkers/internal/server/storage"

	"github.com/google/uuid"
)

const (
	// MaxGames caps the number of live games held in memory
	MaxGames = 1000
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
	ErrTooManyGames = errors.New("too many active games")
)

// Game is a live session registered with the service
type Game struct {
	ID        string
	Session   *game.Session
	Seated    bool
	CreatedAt time.Time
}

// Service coordinates live sessions, seat tokens, long polling and storage
type Service struct {
	games      map[string]*Game
	mu         sync.RWMutex
	store      *storage.Store
	seatSecret []byte
	waiter     *WaitRegistry
}

// New creates a new service instance with optional storage
func New(store *storage.Store, seatSecret []byte) *Service {
	return &Service{
		games:      make(map[string]*Game),
		store:      store,
		seatSecret: seatSecret,
		waiter:     NewWaitRegistry(),
	}
}

// GenerateGameID returns a fresh game ID that is not in use
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// CreateGame registers a session under the given ID and records it
func (s *Service) CreateGame(id string, session *game.Session, seated bool) (*Game, error) {
	s.mu.Lock()
	if _, exists := s.games[id]; exists {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrGameExists, id)
	}
	if len(s.games) >= MaxGames {
		s.mu.Unlock()
		return nil, ErrTooManyGames
	}

	g := &Game{
		ID:        id,
		Session:   session,
		Seated:    seated,
		CreatedAt: time.Now().UTC(),
	}
	s.games[id] = g
	s.mu.Unlock()

	session.Subscribe(game.ListenerFuncs{
		GameOver: func(e game.GameOverEvent) { s.recordResult(id, e) },
	})

	if s.store != nil {
		record := storage.GameRecord{
			GameID:        id,
			InitialLayout: session.Layout(),
			StartingTurn:  session.Turn().String(),
			Seated:        seated,
			StartTimeUTC:  g.CreatedAt,
		}
		if err := s.store.RecordNewGame(record); err != nil {
			log.Printf("Failed to record game %s: %v", id, err)
		}
	}

	return g, nil
}

func (s *Service) recordResult(gameID string, e game.GameOverEvent) {
	log.Printf("Game %s round %d won by %s with %d pieces after %d moves",
		gameID, e.Round, e.Winner, e.WinnerPieces, e.Moves)

	if s.store == nil {
		return
	}
	record := storage.ResultRecord{
		GameID:          gameID,
		Round:           e.Round,
		Winner:          e.Winner.String(),
		WinnerPieces:    e.WinnerPieces,
		Moves:           e.Moves,
		FinishedTimeUTC: time.Now().UTC(),
	}
	if err := s.store.RecordResult(record); err != nil {
		log.Printf("Failed to record result for game %s: %v", gameID, err)
	}
}

// GetGame returns a live game by ID
func (s *Service) GetGame(id string) (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return g, nil
}

// DeleteGame drops a live game, releases its waiters and removes its records
func (s *Service) DeleteGame(id string) error {
	s.mu.Lock()
	if _, ok := s.games[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	delete(s.games, id)
	s.mu.Unlock()

	s.waiter.RemoveGame(id)

	if s.store != nil {
		if err := s.store.DeleteGame(id); err != nil {
			log.Printf("Failed to delete records of game %s: %v", id, err)
		}
	}
	return nil
}

// GameCount returns the number of live games
func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// NotifyChange wakes clients waiting on a game at a version older than current
func (s *Service) NotifyChange(gameID string, current uint64) {
	s.waiter.NotifyGame(gameID, current)
}

// RegisterWait registers a client to wait for a game to move past version.
// The returned channel is closed on change, timeout, deletion or shutdown.
func (s *Service) RegisterWait(ctx context.Context, gameID string, version uint64) <-chan struct{} {
	notify := s.waiter.RegisterWait(ctx, gameID, version)

	// Catch a change that landed between the caller reading the version and registering
	g, err := s.GetGame(gameID)
	if err != nil {
		s.waiter.RemoveGame(gameID)
	} else if current := g.Session.Version(); current > version {
		s.waiter.NotifyGame(gameID, current)
	}

	return notify
}

// Shutdown gracefully shuts down the service
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*Game)

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}
