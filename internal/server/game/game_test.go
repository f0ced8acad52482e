package game

import (
	"testing"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
	"checkers/internal/server/engine"
)

func cell(row, col int) core.Cell {
	return core.Cell{Row: row, Col: col}
}

func layoutOf(pieces map[core.Cell]core.Piece) string {
	b := board.Empty()
	for c, p := range pieces {
		p := p
		b.Place(&p, c)
	}
	return b.Layout()
}

func mustSession(t *testing.T, pieces map[core.Cell]core.Piece, turn core.Color) *Session {
	t.Helper()
	s, err := NewSessionFromLayout(layoutOf(pieces), turn)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return s
}

var (
	red   = core.Piece{Color: core.ColorRed}
	black = core.Piece{Color: core.ColorBlack}
)

func TestNewSession(t *testing.T) {
	s := NewSession()
	v := s.View()

	if v.Turn != core.ColorBlack {
		t.Errorf("expected black to open, got %s", v.Turn)
	}
	if v.Selection != nil || v.Phase != core.PhaseIdle {
		t.Errorf("expected no selection, got %v in phase %s", v.Selection, v.Phase)
	}
	if v.Board.Layout() != board.StartingLayout {
		t.Errorf("unexpected layout %q", v.Board.Layout())
	}
	if v.Round != 1 || v.Version != 0 {
		t.Errorf("expected round 1 version 0, got round %d version %d", v.Round, v.Version)
	}
}

func TestScenarioSimpleBlackMove(t *testing.T) {
	s := NewSession()

	res := s.Click(cell(5, 0))
	if !res.Selected || s.Phase() != core.PhaseSelected {
		t.Fatalf("expected selection of 5,0, got %+v", res)
	}

	res = s.Click(cell(4, 1))
	if res.Move.Kind != engine.MoveSimple || !res.TurnSwitched {
		t.Fatalf("expected simple move with turn switch, got %+v", res)
	}
	if s.Turn() != core.ColorRed {
		t.Errorf("expected red to move, got %s", s.Turn())
	}
	if s.Selection() != nil || s.Phase() != core.PhaseIdle {
		t.Error("selection should be cleared after a move")
	}

	v := s.View()
	if v.Board.PieceAt(cell(5, 0)) != nil || v.Board.PieceAt(cell(4, 1)) == nil {
		t.Error("piece not relocated")
	}
}

func TestScenarioCaptureWithoutContinuation(t *testing.T) {
	s := mustSession(t, map[core.Cell]core.Piece{
		cell(2, 1): red,
		cell(3, 2): black,
		cell(7, 0): black,
	}, core.ColorRed)

	s.Click(cell(2, 1))
	res := s.Click(cell(4, 3))

	if res.Move.Kind != engine.MoveCapture {
		t.Fatalf("expected capture, got %s", res.Move.Kind)
	}
	if res.Capture == nil || res.Capture.Jumped != cell(3, 2) || res.Capture.By != core.ColorRed {
		t.Fatalf("unexpected capture event %+v", res.Capture)
	}
	if s.Turn() != core.ColorBlack {
		t.Errorf("expected black to move, got %s", s.Turn())
	}
	if s.Selection() != nil {
		t.Error("selection should be cleared")
	}

	v := s.View()
	if v.Board.PieceAt(cell(3, 2)) != nil {
		t.Error("jumped piece still on board")
	}
	if p := v.Board.PieceAt(cell(4, 3)); p == nil || p.Color != core.ColorRed {
		t.Error("red piece not at 4,3")
	}
}

func TestScenarioCaptureChain(t *testing.T) {
	s := mustSession(t, map[core.Cell]core.Piece{
		cell(2, 1): red,
		cell(3, 2): black,
		cell(5, 4): black,
		cell(7, 0): black,
	}, core.ColorRed)

	s.Click(cell(2, 1))
	res := s.Click(cell(4, 3))
	if res.Move.Kind != engine.MoveCapture || !res.Move.Continues {
		t.Fatalf("expected continuing capture, got %+v", res.Move)
	}
	if res.TurnSwitched || s.Turn() != core.ColorRed {
		t.Fatal("turn must not switch while a capture chain continues")
	}
	if sel := s.Selection(); sel == nil || *sel != cell(4, 3) {
		t.Fatalf("expected selection at landing cell 4,3, got %v", sel)
	}
	if s.Phase() != core.PhaseChainCapture {
		t.Errorf("expected chain capture phase, got %s", s.Phase())
	}

	res = s.Click(cell(6, 5))
	if res.Move.Kind != engine.MoveCapture || !res.TurnSwitched {
		t.Fatalf("expected final capture with turn switch, got %+v", res)
	}
	if s.Turn() != core.ColorBlack {
		t.Errorf("expected black to move, got %s", s.Turn())
	}
	if got := s.View().Board.CountByColor(core.ColorBlack); got != 1 {
		t.Errorf("expected 1 black piece left, got %d", got)
	}
}

func TestScenarioOpponentPieceNotSelectable(t *testing.T) {
	s := NewSession()

	res := s.Click(cell(2, 1)) // red piece, black to move
	if res.Changed || res.Selected {
		t.Fatalf("opponent piece should not be selectable: %+v", res)
	}
	if s.Selection() != nil || s.Version() != 0 {
		t.Error("state changed on opponent click")
	}
}

func TestScenarioOccupiedDestinationIsNoop(t *testing.T) {
	s := NewSession()
	s.Click(cell(5, 2))
	before := s.View()

	// Both targets hold red pieces
	for _, target := range []core.Cell{cell(2, 3), cell(0, 7)} {
		res := s.Click(target)
		if res.Changed {
			t.Errorf("click on occupied %s changed state", target)
		}
	}

	after := s.View()
	if after.Board.Layout() != before.Board.Layout() || after.Turn != before.Turn || after.Version != before.Version {
		t.Error("state changed")
	}
	if sel := s.Selection(); sel == nil || *sel != cell(5, 2) {
		t.Errorf("selection lost: %v", sel)
	}
}

func TestIllegalClicksAreAbsorbed(t *testing.T) {
	s := NewSession()
	s.Click(cell(5, 2))
	before := s.View()

	for _, target := range []core.Cell{
		cell(4, 2),  // not diagonal
		cell(3, 4),  // two steps with empty midpoint
		cell(2, 5),  // three steps
		cell(-1, 3), // off board
		cell(9, 9),  // off board
	} {
		if res := s.Click(target); res.Changed {
			t.Errorf("illegal target %s changed state: %+v", target, res)
		}
	}

	after := s.View()
	if after.Board.Layout() != before.Board.Layout() || after.Turn != before.Turn {
		t.Error("board or turn changed")
	}
	if after.Selection == nil || *after.Selection != cell(5, 2) {
		t.Error("selection changed")
	}
}

func TestClickWithoutSelectionIsNoop(t *testing.T) {
	s := NewSession()
	if res := s.Click(cell(4, 1)); res.Changed {
		t.Fatalf("empty cell click without selection changed state: %+v", res)
	}
}

func TestSelectionOverwrites(t *testing.T) {
	s := NewSession()
	s.Click(cell(5, 0))
	s.Click(cell(5, 2))

	if sel := s.Selection(); sel == nil || *sel != cell(5, 2) {
		t.Fatalf("expected selection 5,2, got %v", sel)
	}
	if s.Version() != 2 {
		t.Errorf("expected version 2, got %d", s.Version())
	}
}

func TestReselectDuringChainAbandonsChain(t *testing.T) {
	s := mustSession(t, map[core.Cell]core.Piece{
		cell(0, 1): red,
		cell(2, 1): red,
		cell(3, 2): black,
		cell(5, 4): black,
		cell(7, 0): black,
	}, core.ColorRed)

	s.Click(cell(2, 1))
	s.Click(cell(4, 3))
	if s.Phase() != core.PhaseChainCapture {
		t.Fatalf("expected chain capture, got %s", s.Phase())
	}

	res := s.Click(cell(0, 1))
	if !res.Selected {
		t.Fatalf("expected reselection, got %+v", res)
	}
	if s.Phase() != core.PhaseSelected || s.Turn() != core.ColorRed {
		t.Errorf("expected red still to move in selected phase, got %s %s", s.Turn(), s.Phase())
	}

	// The abandoned piece can no longer continue; the new piece moves normally
	res = s.Click(cell(1, 2))
	if res.Move.Kind != engine.MoveSimple || s.Turn() != core.ColorBlack {
		t.Errorf("expected simple move handing the turn to black, got %+v", res)
	}
}

func TestSimpleMoveAllowedWhileCaptureAvailable(t *testing.T) {
	s := mustSession(t, map[core.Cell]core.Piece{
		cell(2, 1): red,
		cell(3, 2): black,
		cell(2, 5): red,
		cell(7, 0): black,
	}, core.ColorRed)

	s.Click(cell(2, 5))
	res := s.Click(cell(3, 6))
	if res.Move.Kind != engine.MoveSimple {
		t.Fatalf("expected simple move despite available capture, got %s", res.Move.Kind)
	}
	if s.Turn() != core.ColorBlack {
		t.Errorf("expected black to move, got %s", s.Turn())
	}
}

func TestKingStaysKing(t *testing.T) {
	s := mustSession(t, map[core.Cell]core.Piece{
		cell(6, 1): red,
		cell(4, 7): black,
	}, core.ColorRed)

	s.Click(cell(6, 1))
	res := s.Click(cell(7, 2))
	if !res.Move.Promoted {
		t.Fatal("expected promotion on row 7")
	}

	// Black moves, then the red king steps backward
	s.Click(cell(4, 7))
	s.Click(cell(3, 6))
	s.Click(cell(7, 2))
	res = s.Click(cell(6, 3))
	if res.Move.Kind != engine.MoveSimple {
		t.Fatalf("expected king to move backward, got %s", res.Move.Kind)
	}
	if p := s.View().Board.PieceAt(cell(6, 3)); p == nil || !p.King {
		t.Errorf("expected king at 6,3, got %+v", p)
	}
}

func TestGameOverResetsBoard(t *testing.T) {
	s := mustSession(t, map[core.Cell]core.Piece{
		cell(2, 1): red,
		cell(3, 2): black,
	}, core.ColorRed)

	var captures []CaptureEvent
	var overs []GameOverEvent
	s.Subscribe(ListenerFuncs{
		Capture:  func(e CaptureEvent) { captures = append(captures, e) },
		GameOver: func(e GameOverEvent) { overs = append(overs, e) },
	})

	s.Click(cell(2, 1))
	res := s.Click(cell(4, 3))

	if res.GameOver == nil || res.GameOver.Winner != core.ColorRed {
		t.Fatalf("expected red win, got %+v", res.GameOver)
	}
	if len(captures) != 1 || captures[0].Piece.Color != core.ColorBlack {
		t.Errorf("expected one capture event, got %+v", captures)
	}
	if len(overs) != 1 || overs[0].Winner != core.ColorRed || overs[0].Round != 1 {
		t.Errorf("expected one game over event for round 1, got %+v", overs)
	}
	if overs[0].WinnerPieces != 1 || overs[0].Moves != 1 {
		t.Errorf("unexpected game over details %+v", overs[0])
	}

	v := s.View()
	if v.Board.Layout() != board.StartingLayout {
		t.Errorf("board not reset: %q", v.Board.Layout())
	}
	if v.Turn != core.ColorBlack || v.Selection != nil {
		t.Errorf("expected black to move with no selection, got %s %v", v.Turn, v.Selection)
	}
	if v.Round != 2 || v.RedWins != 1 || v.BlackWins != 0 || v.Moves != 0 {
		t.Errorf("unexpected round bookkeeping %+v", v)
	}
	if v.LastResult == nil || v.LastResult.Winner != core.ColorRed {
		t.Errorf("expected last result red, got %+v", v.LastResult)
	}
}

func TestBlackWins(t *testing.T) {
	s := mustSession(t, map[core.Cell]core.Piece{
		cell(4, 3): red,
		cell(5, 4): black,
	}, core.ColorBlack)

	s.Click(cell(5, 4))
	res := s.Click(cell(3, 2))
	if res.GameOver == nil || res.GameOver.Winner != core.ColorBlack {
		t.Fatalf("expected black win, got %+v", res.GameOver)
	}
	if s.Wins(core.ColorBlack) != 1 {
		t.Errorf("expected 1 black win, got %d", s.Wins(core.ColorBlack))
	}
}

func TestRestart(t *testing.T) {
	s := NewSession()
	s.Click(cell(5, 0))
	s.Click(cell(4, 1))
	s.Click(cell(2, 1))

	s.Restart()

	v := s.View()
	if v.Board.Layout() != board.StartingLayout || v.Turn != core.ColorBlack || v.Selection != nil {
		t.Errorf("restart did not reset state: %+v", v)
	}
	if v.Round != 2 || v.LastResult != nil {
		t.Errorf("unexpected round bookkeeping after restart: %+v", v)
	}
}

func TestNewSessionFromLayoutErrors(t *testing.T) {
	if _, err := NewSessionFromLayout("8/8", core.ColorRed); err == nil {
		t.Error("expected layout error")
	}
	if _, err := NewSessionFromLayout(board.StartingLayout, core.ColorNone); err == nil {
		t.Error("expected turn error")
	}

	// Both sides must be on the board, whichever one moves first
	for _, tt := range []struct {
		layout string
		turn   core.Color
	}{
		{"8/8/1r6/8/8/8/8/8", core.ColorBlack},
		{"8/8/1r6/8/8/8/8/8", core.ColorRed},
		{"8/8/8/8/8/b7/8/8", core.ColorRed},
		{"8/8/8/8/8/8/8/8", core.ColorBlack},
	} {
		if _, err := NewSessionFromLayout(tt.layout, tt.turn); err == nil {
			t.Errorf("expected error for one-sided layout %q with %s to move", tt.layout, tt.turn)
		}
	}
}

func TestClickAs(t *testing.T) {
	s := NewSession()

	if _, err := s.ClickAs(core.ColorRed, cell(2, 1)); err != ErrNotYourTurn {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	if s.Version() != 0 {
		t.Error("rejected seat changed state")
	}

	res, err := s.ClickAs(core.ColorBlack, cell(5, 0))
	if err != nil || !res.Selected || res.Mover != core.ColorBlack {
		t.Fatalf("expected black selection, got %+v (%v)", res, err)
	}
}
