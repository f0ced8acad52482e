package board

import (
	"fmt"
	"strings"

	"checkers/internal/server/core"
)

const (
	// StartingLayout has red on the dark cells of rows 0-2 and black on rows 5-7
	StartingLayout = "1r1r1r1r/r1r1r1r1/1r1r1r1r/8/8/b1b1b1b1/1b1b1b1b/b1b1b1b1"
)

// OccupiedError is raised when a piece is placed on a cell that already holds one
type OccupiedError struct {
	Cell core.Cell
}

func (e *OccupiedError) Error() string {
	return fmt.Sprintf("cell %s is already occupied", e.Cell)
}

// InvalidCellError is raised when a piece is placed off the board or on a light cell
type InvalidCellError struct {
	Cell core.Cell
}

func (e *InvalidCellError) Error() string {
	return fmt.Sprintf("cell %s cannot hold a piece", e.Cell)
}

// Board owns the 8x8 grid; pieces live only on dark cells
type Board struct {
	squares [core.BoardSize][core.BoardSize]*core.Piece
}

// New returns a board with the standard starting layout
func New() *Board {
	b := Empty()
	for r := 0; r < core.BoardSize; r++ {
		for c := 0; c < core.BoardSize; c++ {
			cell := core.Cell{Row: r, Col: c}
			if !cell.Dark() {
				continue
			}
			switch {
			case r < 3:
				b.Place(&core.Piece{Color: core.ColorRed}, cell)
			case r > 4:
				b.Place(&core.Piece{Color: core.ColorBlack}, cell)
			}
		}
	}
	return b
}

func Empty() *Board {
	return &Board{}
}

// PieceAt returns the piece on a cell, nil for empty or off-board cells
func (b *Board) PieceAt(cell core.Cell) *core.Piece {
	if !cell.OnBoard() {
		return nil
	}
	return b.squares[cell.Row][cell.Col]
}

// Place puts a piece on an empty dark cell and panics otherwise
func (b *Board) Place(p *core.Piece, cell core.Cell) {
	if !cell.OnBoard() || !cell.Dark() {
		panic(&InvalidCellError{Cell: cell})
	}
	if b.squares[cell.Row][cell.Col] != nil {
		panic(&OccupiedError{Cell: cell})
	}
	b.squares[cell.Row][cell.Col] = p
}

// Remove clears a cell
func (b *Board) Remove(cell core.Cell) {
	if !cell.OnBoard() {
		return
	}
	b.squares[cell.Row][cell.Col] = nil
}

// MovePieceTo relocates the piece on from to the empty cell to and applies
// promotion. It reports whether the piece was crowned by this move.
func (b *Board) MovePieceTo(from, to core.Cell) bool {
	p := b.PieceAt(from)
	if p == nil {
		panic(fmt.Sprintf("no piece to move at %s", from))
	}
	b.Place(p, to)
	b.squares[from.Row][from.Col] = nil

	if p.PromotesOn(to.Row) {
		p.King = true
		return true
	}
	return false
}

// CountByColor returns how many pieces of a color remain
func (b *Board) CountByColor(color core.Color) int {
	n := 0
	for r := 0; r < core.BoardSize; r++ {
		for c := 0; c < core.BoardSize; c++ {
			if p := b.squares[r][c]; p != nil && p.Color == color {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy so callers can render without holding a lock
func (b *Board) Clone() *Board {
	out := Empty()
	for r := 0; r < core.BoardSize; r++ {
		for c := 0; c < core.BoardSize; c++ {
			if p := b.squares[r][c]; p != nil {
				cp := *p
				out.squares[r][c] = &cp
			}
		}
	}
	return out
}

// ParseLayout builds a board from its layout string
func ParseLayout(layout string) (*Board, error) {
	rows := strings.Split(strings.TrimSpace(layout), "/")
	if len(rows) != core.BoardSize {
		return nil, fmt.Errorf("invalid layout: expected %d rows, got %d", core.BoardSize, len(rows))
	}

	b := Empty()
	for r, row := range rows {
		col := 0
		for _, ch := range row {
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			if col >= core.BoardSize {
				return nil, fmt.Errorf("invalid layout: too many cells in row %d", r)
			}

			p, ok := pieceFromRune(ch)
			if !ok {
				return nil, fmt.Errorf("invalid layout: unknown piece %q in row %d", ch, r)
			}
			cell := core.Cell{Row: r, Col: col}
			if !cell.Dark() {
				return nil, fmt.Errorf("invalid layout: piece on light cell %s", cell)
			}
			b.squares[r][col] = p
			col++
		}
		if col != core.BoardSize {
			return nil, fmt.Errorf("invalid layout: row %d has %d cells", r, col)
		}
	}

	return b, nil
}

// Layout encodes the board; ParseLayout(b.Layout()) reproduces b
func (b *Board) Layout() string {
	var sb strings.Builder
	for r := 0; r < core.BoardSize; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for c := 0; c < core.BoardSize; c++ {
			p := b.squares[r][c]
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(pieceRune(p))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	return sb.String()
}

// ToASCII creates an ASCII representation of the board
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  0 1 2 3 4 5 6 7\n")

	for r := 0; r < core.BoardSize; r++ {
		sb.WriteString(fmt.Sprintf("%d ", r))
		for c := 0; c < core.BoardSize; c++ {
			cell := core.Cell{Row: r, Col: c}
			p := b.squares[r][c]

			switch {
			case p != nil:
				sb.WriteString(fmt.Sprintf("%c ", pieceRune(p)))
			case cell.Dark():
				sb.WriteString(". ")
			default:
				sb.WriteString("  ")
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", r))
	}
	sb.WriteString("  0 1 2 3 4 5 6 7")

	return sb.String()
}

func pieceRune(p *core.Piece) byte {
	var ch byte = 'b'
	if p.Color == core.ColorRed {
		ch = 'r'
	}
	if p.King {
		ch -= 'a' - 'A'
	}
	return ch
}

func pieceFromRune(ch rune) (*core.Piece, bool) {
	switch ch {
	case 'r':
		return &core.Piece{Color: core.ColorRed}, true
	case 'R':
		return &core.Piece{Color: core.ColorRed, King: true}, true
	case 'b':
		return &core.Piece{Color: core.ColorBlack}, true
	case 'B':
		return &core.Piece{Color: core.ColorBlack, King: true}, true
	default:
		return nil, false
	}
}
