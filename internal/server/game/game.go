package game

import (
	"errors"
	"fmt"
	"sync"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
	"checkers/internal/server/engine"
)

// ErrNotYourTurn is returned by ClickAs when the seat is not the side to move
var ErrNotYourTurn = errors.New("not your turn")

// CaptureEvent is raised exactly when a jumped piece is removed
type CaptureEvent struct {
	Round  int
	By     core.Color
	From   core.Cell
	To     core.Cell
	Jumped core.Cell
	Piece  core.Piece
}

// GameOverEvent is raised exactly when a color's piece count reaches zero
type GameOverEvent struct {
	Round        int
	Winner       core.Color
	WinnerPieces int
	Moves        int
}

// RoundResult tracks the outcome of a finished round
type RoundResult struct {
	Round  int
	Winner core.Color
}

// Listener receives session events after the click that raised them has completed
type Listener interface {
	OnCapture(CaptureEvent)
	OnGameOver(GameOverEvent)
}

// ListenerFuncs adapts plain functions to Listener; nil fields are skipped
type ListenerFuncs struct {
	Capture  func(CaptureEvent)
	GameOver func(GameOverEvent)
}

func (l ListenerFuncs) OnCapture(e CaptureEvent) {
	if l.Capture != nil {
		l.Capture(e)
	}
}

func (l ListenerFuncs) OnGameOver(e GameOverEvent) {
	if l.GameOver != nil {
		l.GameOver(e)
	}
}

// ClickResult describes what a single click did
type ClickResult struct {
	Mover        core.Color // Side to move when the click arrived
	Changed      bool
	Selected     bool          // The click (re)selected an own piece
	Move         engine.Result // Kind is MoveNone unless a move was made
	TurnSwitched bool
	Capture      *CaptureEvent
	GameOver     *GameOverEvent
}

// View is a consistent copy of the session state for rendering
type View struct {
	Board      *board.Board
	Turn       core.Color
	Selection  *core.Cell
	Phase      core.Phase
	Version    uint64
	Round      int
	Moves      int
	RedWins    int
	BlackWins  int
	LastResult *RoundResult
}

// Session owns one board and the turn/selection state of a game.
// Clicks are processed one at a time, each to completion.
type Session struct {
	mu         sync.Mutex
	board      *board.Board
	turn       core.Color
	selection  *core.Cell
	phase      core.Phase
	version    uint64
	round      int
	moves      int
	wins       map[core.Color]int
	lastResult *RoundResult
	listeners  []Listener
}

// NewSession starts a game from the standard layout with black to move
func NewSession() *Session {
	return newSession(board.New(), core.ColorBlack)
}

// NewSessionFromLayout starts a game from an arbitrary position holding
// pieces of both colors. Later rounds always start from the standard layout.
func NewSessionFromLayout(layout string, turn core.Color) (*Session, error) {
	b, err := board.ParseLayout(layout)
	if err != nil {
		return nil, err
	}
	if turn != core.ColorRed && turn != core.ColorBlack {
		return nil, fmt.Errorf("invalid starting turn: %s", turn)
	}
	// A side without pieces could never trigger the game-over reset
	for _, c := range []core.Color{core.ColorRed, core.ColorBlack} {
		if b.CountByColor(c) == 0 {
			return nil, fmt.Errorf("layout has no %s pieces", c)
		}
	}
	return newSession(b, turn), nil
}

func newSession(b *board.Board, turn core.Color) *Session {
	return &Session{
		board: b,
		turn:  turn,
		phase: core.PhaseIdle,
		round: 1,
		wins:  make(map[core.Color]int),
	}
}

// Subscribe registers a listener for capture and game-over events
func (s *Session) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Click handles a click on a cell: select an own piece or move the selected one
func (s *Session) Click(cell core.Cell) ClickResult {
	result, _ := s.ClickAs(core.ColorNone, cell)
	return result
}

// ClickAs is Click on behalf of a seat; it fails unless that seat is to move.
// ColorNone skips the seat check.
func (s *Session) ClickAs(seat core.Color, cell core.Cell) (ClickResult, error) {
	s.mu.Lock()
	if seat != core.ColorNone && seat != s.turn {
		s.mu.Unlock()
		return ClickResult{Mover: s.turn}, ErrNotYourTurn
	}
	result := s.click(cell)
	if result.Changed {
		s.version++
	}
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	if result.Capture != nil {
		for _, l := range listeners {
			l.OnCapture(*result.Capture)
		}
	}
	if result.GameOver != nil {
		for _, l := range listeners {
			l.OnGameOver(*result.GameOver)
		}
	}

	return result, nil
}

func (s *Session) click(cell core.Cell) ClickResult {
	mover := s.turn

	// Own piece: select unconditionally, overwriting any selection or chain
	if p := s.board.PieceAt(cell); p != nil && p.Color == mover {
		selected := cell
		s.selection = &selected
		s.phase = core.PhaseSelected
		return ClickResult{Mover: mover, Changed: true, Selected: true}
	}

	if s.selection == nil {
		return ClickResult{Mover: mover}
	}

	from := *s.selection
	res := engine.Apply(s.board, from, cell, mover)
	result := ClickResult{Mover: mover, Move: res}

	switch res.Kind {
	case engine.MoveNone:
		return result

	case engine.MoveSimple:
		s.moves++
		s.clearSelection()
		result.GameOver = s.switchTurn()
		result.TurnSwitched = true

	case engine.MoveCapture:
		s.moves++
		result.Capture = &CaptureEvent{
			Round:  s.round,
			By:     s.turn,
			From:   res.From,
			To:     res.To,
			Jumped: res.Jumped,
			Piece:  res.Captured,
		}
		if res.Continues {
			landing := res.To
			s.selection = &landing
			s.phase = core.PhaseChainCapture
		} else {
			s.clearSelection()
			result.GameOver = s.switchTurn()
			result.TurnSwitched = true
		}
	}

	result.Changed = true
	return result
}

func (s *Session) clearSelection() {
	s.selection = nil
	s.phase = core.PhaseIdle
}

// switchTurn flips the side to move and resets the board when a color is wiped out
func (s *Session) switchTurn() *GameOverEvent {
	s.turn = core.OppositeColor(s.turn)

	red := s.board.CountByColor(core.ColorRed)
	black := s.board.CountByColor(core.ColorBlack)
	if red > 0 && black > 0 {
		return nil
	}

	winner, left := core.ColorBlack, black
	if black == 0 {
		winner, left = core.ColorRed, red
	}

	event := &GameOverEvent{
		Round:        s.round,
		Winner:       winner,
		WinnerPieces: left,
		Moves:        s.moves,
	}
	s.wins[winner]++
	s.lastResult = &RoundResult{Round: s.round, Winner: winner}
	s.reset()

	return event
}

// Restart abandons the current round and sets up a fresh board, black to move
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	s.version++
}

func (s *Session) reset() {
	s.board = board.New()
	s.turn = core.ColorBlack
	s.clearSelection()
	s.round++
	s.moves = 0
}

// View returns a snapshot of the session that is safe to use without locking
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Board:     s.board.Clone(),
		Turn:      s.turn,
		Phase:     s.phase,
		Version:   s.version,
		Round:     s.round,
		Moves:     s.moves,
		RedWins:   s.wins[core.ColorRed],
		BlackWins: s.wins[core.ColorBlack],
	}
	if s.selection != nil {
		sel := *s.selection
		v.Selection = &sel
	}
	if s.lastResult != nil {
		r := *s.lastResult
		v.LastResult = &r
	}
	return v
}

// Board returns a copy of the current board
func (s *Session) Board() *board.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone()
}

func (s *Session) Turn() core.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turn
}

// Selection returns the selected cell, nil when nothing is selected
func (s *Session) Selection() *core.Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection == nil {
		return nil
	}
	sel := *s.selection
	return &sel
}

func (s *Session) Phase() core.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) Layout() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Layout()
}

// Version increases on every state change
func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *Session) Round() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round
}

func (s *Session) Wins(c core.Color) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wins[c]
}

func (s *Session) LastResult() *RoundResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastResult == nil {
		return nil
	}
	r := *s.lastResult
	return &r
}
