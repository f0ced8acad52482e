package display

import (
	"fmt"
	"strings"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
)

// RenderBoard draws the board with coordinates; the selected cell is bracketed
func (p *Printer) RenderBoard(b *board.Board, selection *core.Cell) {
	var sb strings.Builder

	header := "   "
	for c := 0; c < core.BoardSize; c++ {
		header += fmt.Sprintf(" %d ", c)
	}
	sb.WriteString(p.Paint(Cyan, header))
	sb.WriteString("\n")

	for r := 0; r < core.BoardSize; r++ {
		sb.WriteString(p.Paint(Cyan, fmt.Sprintf(" %d ", r)))
		for c := 0; c < core.BoardSize; c++ {
			cell := core.Cell{Row: r, Col: c}
			left, right := " ", " "
			if selection != nil && *selection == cell {
				left, right = p.Paint(Yellow, "["), p.Paint(Yellow, "]")
			}
			sb.WriteString(left + p.cellGlyph(b, cell) + right)
		}
		sb.WriteString(p.Paint(Cyan, fmt.Sprintf(" %d", r)))
		sb.WriteString("\n")
	}

	fmt.Fprint(p.out, sb.String())
}

func (p *Printer) cellGlyph(b *board.Board, cell core.Cell) string {
	if !cell.Dark() {
		return " "
	}

	piece := b.PieceAt(cell)
	if piece == nil {
		return "."
	}

	glyph := "r"
	color := Red
	if piece.Color == core.ColorBlack {
		glyph = "b"
		color = Blue
	}
	if piece.King {
		glyph = strings.ToUpper(glyph)
		color = Bold + color
	}
	return p.Paint(color, glyph)
}

// ColorName returns a colored side name
func (p *Printer) ColorName(c core.Color) string {
	switch c {
	case core.ColorRed:
		return p.Paint(Red, "Red")
	case core.ColorBlack:
		return p.Paint(Blue, "Black")
	default:
		return "-"
	}
}
