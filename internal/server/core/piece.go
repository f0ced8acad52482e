package core

import (
	"fmt"
	"strings"
)

// BoardSize is the number of rows and columns on a draughts board
const BoardSize = 8

type Color byte

const (
	ColorNone Color = iota
	ColorRed
	ColorBlack
)

func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorBlack:
		return "black"
	default:
		return "-"
	}
}

func OppositeColor(c Color) Color {
	if c == ColorRed {
		return ColorBlack
	}
	return ColorRed
}

// ParseColor accepts "red"/"r" and "black"/"b" in any case
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "r":
		return ColorRed, nil
	case "black", "b":
		return ColorBlack, nil
	default:
		return ColorNone, fmt.Errorf("invalid color: %q", s)
	}
}

// Cell is a board coordinate; row 0 is red's home row
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// OnBoard reports whether the cell lies inside the 8x8 grid
func (c Cell) OnBoard() bool {
	return c.Row >= 0 && c.Row < BoardSize && c.Col >= 0 && c.Col < BoardSize
}

// Dark reports whether the cell can hold a piece
func (c Cell) Dark() bool {
	return (c.Row+c.Col)%2 != 0
}

func (c Cell) Add(dr, dc int) Cell {
	return Cell{Row: c.Row + dr, Col: c.Col + dc}
}

func (c Cell) String() string {
	return fmt.Sprintf("%d,%d", c.Row, c.Col)
}

// Piece is a man or a king; King only ever flips from false to true
type Piece struct {
	Color Color
	King  bool
}

// Forward returns the row delta of a non-king step for the piece's color
func (p Piece) Forward() int {
	if p.Color == ColorRed {
		return 1
	}
	return -1
}

// PromotionRow is the row on which a man of the given color is crowned
func PromotionRow(c Color) int {
	if c == ColorRed {
		return BoardSize - 1
	}
	return 0
}

// PromotesOn reports whether the piece is crowned by landing on row
func (p Piece) PromotesOn(row int) bool {
	return !p.King && row == PromotionRow(p.Color)
}
