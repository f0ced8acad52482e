package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"checkers/internal/server/core"
	"checkers/internal/server/game"
	"checkers/internal/server/storage"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestCreateGetDeleteGame(t *testing.T) {
	svc := New(nil, testSecret)
	id := svc.GenerateGameID()

	if _, err := svc.CreateGame(id, game.NewSession(), false); err != nil {
		t.Fatalf("create game: %v", err)
	}
	if _, err := svc.CreateGame(id, game.NewSession(), false); !errors.Is(err, ErrGameExists) {
		t.Errorf("expected ErrGameExists, got %v", err)
	}

	g, err := svc.GetGame(id)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if g.ID != id || g.Session == nil {
		t.Errorf("unexpected game %+v", g)
	}

	if err := svc.DeleteGame(id); err != nil {
		t.Fatalf("delete game: %v", err)
	}
	if _, err := svc.GetGame(id); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("expected ErrGameNotFound, got %v", err)
	}
	if err := svc.DeleteGame(id); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("expected ErrGameNotFound on second delete, got %v", err)
	}
	if svc.GetStorageHealth() != "disabled" {
		t.Errorf("expected disabled storage, got %s", svc.GetStorageHealth())
	}
}

func TestSeatTokens(t *testing.T) {
	svc := New(nil, testSecret)

	seated := svc.GenerateGameID()
	svc.CreateGame(seated, game.NewSession(), true)
	open := svc.GenerateGameID()
	svc.CreateGame(open, game.NewSession(), false)

	if _, err := svc.IssueSeatTokens(open); !errors.Is(err, ErrNotSeated) {
		t.Errorf("expected ErrNotSeated, got %v", err)
	}

	tokens, err := svc.IssueSeatTokens(seated)
	if err != nil {
		t.Fatalf("issue tokens: %v", err)
	}

	tests := []struct {
		name    string
		game    string
		token   string
		want    core.Color
		wantErr error
	}{
		{"red seat", seated, tokens.Red, core.ColorRed, nil},
		{"black seat", seated, tokens.Black, core.ColorBlack, nil},
		{"other game", open, tokens.Red, core.ColorNone, ErrSeatMismatch},
		{"garbage", seated, "not-a-token", core.ColorNone, ErrInvalidSeat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.AuthorizeSeat(tt.game, tt.token)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("authorize: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}

	other := New(nil, []byte("another-secret-another-secret-00"))
	if _, _, err := other.ValidateSeatToken(tokens.Red); err == nil {
		t.Error("token signed with another secret must not validate")
	}
}

func TestRegisterWaitWakesOnChange(t *testing.T) {
	svc := New(nil, testSecret)
	id := svc.GenerateGameID()
	g, _ := svc.CreateGame(id, game.NewSession(), false)

	notify := svc.RegisterWait(context.Background(), id, g.Session.Version())

	select {
	case <-notify:
		t.Fatal("woken before any change")
	case <-time.After(50 * time.Millisecond):
	}

	g.Session.Click(core.Cell{Row: 5, Col: 0})
	svc.NotifyChange(id, g.Session.Version())

	select {
	case <-notify:
	case <-time.After(time.Second):
		t.Fatal("waiter not woken after change")
	}
	waitPending(t, svc, id, 0)
}

// waitPending polls until the game has want waiters; removal runs on the waiter goroutine
func waitPending(t *testing.T, svc *Service, gameID string, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for svc.waiter.Pending(gameID) != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d pending waiters, got %d", want, svc.waiter.Pending(gameID))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRegisterWaitStaleVersionReturnsImmediately(t *testing.T) {
	svc := New(nil, testSecret)
	id := svc.GenerateGameID()
	g, _ := svc.CreateGame(id, game.NewSession(), false)
	g.Session.Click(core.Cell{Row: 5, Col: 0})

	select {
	case <-svc.RegisterWait(context.Background(), id, 0):
	case <-time.After(time.Second):
		t.Fatal("stale waiter not released")
	}
}

func TestRegisterWaitReleasedOnDeleteAndCancel(t *testing.T) {
	svc := New(nil, testSecret)
	id := svc.GenerateGameID()
	svc.CreateGame(id, game.NewSession(), false)

	deleted := svc.RegisterWait(context.Background(), id, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancelled := svc.RegisterWait(ctx, id, 0)
	if n := svc.waiter.Pending(id); n != 2 {
		t.Fatalf("expected 2 pending waiters, got %d", n)
	}

	cancel()
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("cancelled waiter not released")
	}
	waitPending(t, svc, id, 1)

	svc.DeleteGame(id)
	select {
	case <-deleted:
	case <-time.After(time.Second):
		t.Fatal("waiter not released on delete")
	}
	waitPending(t, svc, id, 0)

	if err := svc.Shutdown(time.Second); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestGameOverIsPersisted(t *testing.T) {
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "svc.db"), false)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.InitDB(); err != nil {
		t.Fatalf("init db: %v", err)
	}
	svc := New(store, testSecret)
	defer svc.Shutdown(time.Second)

	// Red takes the last black piece
	session, err := game.NewSessionFromLayout("8/8/1r6/2b5/8/8/8/8", core.ColorRed)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	id := svc.GenerateGameID()
	if _, err := svc.CreateGame(id, session, false); err != nil {
		t.Fatalf("create game: %v", err)
	}

	session.Click(core.Cell{Row: 2, Col: 1})
	res := session.Click(core.Cell{Row: 4, Col: 3})
	if res.GameOver == nil {
		t.Fatal("expected game over")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	games, err := store.QueryGames(id)
	if err != nil || len(games) != 1 {
		t.Fatalf("expected the game to be recorded, got %v (%v)", games, err)
	}
	if games[0].StartingTurn != "red" || games[0].InitialLayout != "8/8/1r6/2b5/8/8/8/8" {
		t.Errorf("unexpected game record %+v", games[0])
	}

	results, err := store.QueryResults(id, "")
	if err != nil || len(results) != 1 {
		t.Fatalf("expected one result, got %v (%v)", results, err)
	}
	if results[0].Winner != "red" || results[0].Round != 1 || results[0].WinnerPieces != 1 {
		t.Errorf("unexpected result %+v", results[0])
	}
	if svc.GetStorageHealth() != "ok" {
		t.Errorf("expected healthy storage, got %s", svc.GetStorageHealth())
	}
}
