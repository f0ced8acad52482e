package display

import (
	"bytes"
	"strings"
	"testing"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
)

func TestRenderBoardPlain(t *testing.T) {
	var out bytes.Buffer
	p := New(&out, false)

	sel := core.Cell{Row: 5, Col: 0}
	p.RenderBoard(board.New(), &sel)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 9 {
		t.Fatalf("expected 9 lines, got %d:\n%s", len(lines), out.String())
	}
	if lines[0] != "    0  1  2  3  4  5  6  7 " {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != " 0     r     r     r     r  0" {
		t.Errorf("unexpected row 0 %q", lines[1])
	}
	if !strings.HasPrefix(lines[6], " 5 [b]") {
		t.Errorf("selection not bracketed in row 5: %q", lines[6])
	}
	if strings.Contains(out.String(), "\033[") {
		t.Error("plain output must not contain escape codes")
	}
}

func TestPaint(t *testing.T) {
	if got := New(nil, true).Paint(Red, "x"); got != Red+"x"+Reset {
		t.Errorf("unexpected colored output %q", got)
	}
	if got := New(nil, false).Paint(Red, "x"); got != "x" {
		t.Errorf("unexpected plain output %q", got)
	}
}

func TestKingGlyph(t *testing.T) {
	var out bytes.Buffer
	p := New(&out, false)

	b := board.Empty()
	b.Place(&core.Piece{Color: core.ColorBlack, King: true}, core.Cell{Row: 0, Col: 1})
	p.RenderBoard(b, nil)

	if !strings.Contains(out.String(), " 0     B ") {
		t.Errorf("expected black king on row 0:\n%s", out.String())
	}
}
