package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// WaitTimeout is the maximum time a client can wait for notifications
	WaitTimeout = 25 * time.Second
)

// WaitRegistry manages long-polling clients waiting for game state changes
type WaitRegistry struct {
	mu       sync.Mutex
	waiters  map[string][]*WaitRequest // gameID → waiting clients
	shutdown chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// WaitRequest represents a single client waiting for game updates
type WaitRequest struct {
	Version uint64        // Last version seen by the client
	Notify  chan struct{} // Closed exactly once on change, timeout, deletion or shutdown
	GameID  string

	timer *time.Timer
	fired sync.Once
}

func (r *WaitRequest) fire() {
	r.fired.Do(func() { close(r.Notify) })
}

// NewWaitRegistry creates a new wait registry
func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string][]*WaitRequest),
		shutdown: make(chan struct{}),
	}
}

// RegisterWait registers a client to wait for game state changes
func (w *WaitRegistry) RegisterWait(ctx context.Context, gameID string, version uint64) <-chan struct{} {
	req := &WaitRequest{
		Version: version,
		Notify:  make(chan struct{}),
		GameID:  gameID,
	}
	req.timer = time.AfterFunc(WaitTimeout, req.fire)

	w.mu.Lock()
	w.waiters[gameID] = append(w.waiters[gameID], req)
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
			req.fire()
		case <-req.Notify:
		case <-w.shutdown:
			req.fire()
		}
		req.timer.Stop()
		w.removeWaiter(req)
	}()

	return req.Notify
}

// NotifyGame wakes every client of a game whose version is older than current
func (w *WaitRegistry) NotifyGame(gameID string, current uint64) {
	w.mu.Lock()
	waitList := append([]*WaitRequest(nil), w.waiters[gameID]...)
	w.mu.Unlock()

	for _, req := range waitList {
		if req.Version < current {
			req.fire()
		}
	}
}

// RemoveGame wakes and drops all waiters for a game (called on game deletion)
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	waitList := w.waiters[gameID]
	delete(w.waiters, gameID)
	w.mu.Unlock()

	for _, req := range waitList {
		req.fire()
	}
}

// Pending returns the number of clients waiting on a game
func (w *WaitRegistry) Pending(gameID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.waiters[gameID])
}

// Shutdown releases every waiter and waits for their goroutines
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	w.once.Do(func() { close(w.shutdown) })

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out after %s", timeout)
	}
}

func (w *WaitRegistry) removeWaiter(req *WaitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[req.GameID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[req.GameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}

	if len(w.waiters[req.GameID]) == 0 {
		delete(w.waiters, req.GameID)
	}
}
