// Package engine implements draughts move legality, capture execution and
// the capture-continuation check. It mutates a board but keeps no state.
package engine

import (
	"checkers/internal/server/board"
	"checkers/internal/server/core"
)

type MoveKind int

const (
	MoveNone MoveKind = iota // Rejected, board untouched
	MoveSimple
	MoveCapture
)

func (k MoveKind) String() string {
	switch k {
	case MoveSimple:
		return "simple"
	case MoveCapture:
		return "capture"
	default:
		return "none"
	}
}

// Result describes what Apply did to the board
type Result struct {
	Kind      MoveKind
	From      core.Cell
	To        core.Cell
	Jumped    core.Cell  // Only for captures
	Captured  core.Piece // Copy of the removed piece, only for captures
	Promoted  bool
	Continues bool // A further capture is available from To
}

var (
	manDirections = map[core.Color][][2]int{
		core.ColorRed:   {{2, -2}, {2, 2}},
		core.ColorBlack: {{-2, -2}, {-2, 2}},
	}
	kingDirections = [][2]int{{-2, -2}, {-2, 2}, {2, -2}, {2, 2}}
)

// Apply validates a move of the turn's piece from one cell to another and
// performs it. Any illegal input returns a MoveNone result with the board
// unchanged.
func Apply(b *board.Board, from, to core.Cell, turn core.Color) Result {
	rejected := Result{Kind: MoveNone, From: from, To: to}

	if !from.OnBoard() || !to.OnBoard() {
		return rejected
	}
	piece := b.PieceAt(from)
	if piece == nil || piece.Color != turn {
		return rejected
	}
	// Occupied destination absorbs the click
	if b.PieceAt(to) != nil {
		return rejected
	}

	rowDiff := to.Row - from.Row
	colDiff := to.Col - from.Col
	if abs(rowDiff) != abs(colDiff) {
		return rejected
	}

	switch abs(rowDiff) {
	case 1:
		if !piece.King && rowDiff != piece.Forward() {
			return rejected
		}
		return Result{
			Kind:     MoveSimple,
			From:     from,
			To:       to,
			Promoted: b.MovePieceTo(from, to),
		}

	case 2:
		jumped := from.Add(rowDiff/2, colDiff/2)
		victim := b.PieceAt(jumped)
		if victim == nil || victim.Color != core.OppositeColor(turn) {
			return rejected
		}

		captured := *victim
		b.Remove(jumped)
		promoted := b.MovePieceTo(from, to)

		return Result{
			Kind:      MoveCapture,
			From:      from,
			To:        to,
			Jumped:    jumped,
			Captured:  captured,
			Promoted:  promoted,
			Continues: CanCaptureAgain(b, to, turn),
		}

	default:
		return rejected
	}
}

// CanCaptureAgain reports whether the piece on cell has a capture available:
// an empty on-board landing cell two steps away along one of its capture
// directions with a piece of the color opposite turn in between.
func CanCaptureAgain(b *board.Board, cell core.Cell, turn core.Color) bool {
	piece := b.PieceAt(cell)
	if piece == nil {
		return false
	}

	directions := manDirections[piece.Color]
	if piece.King {
		directions = kingDirections
	}

	opponent := core.OppositeColor(turn)
	for _, d := range directions {
		dest := cell.Add(d[0], d[1])
		mid := cell.Add(d[0]/2, d[1]/2)

		if !dest.OnBoard() || b.PieceAt(dest) != nil {
			continue
		}
		if victim := b.PieceAt(mid); victim != nil && victim.Color == opponent {
			return true
		}
	}

	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
