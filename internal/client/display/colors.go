package display

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Terminal color codes
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
)

// Printer writes optionally colored output
type Printer struct {
	out   io.Writer
	color bool
}

func New(out io.Writer, color bool) *Printer {
	return &Printer{out: out, color: color}
}

// ColorEnabled reports whether f is a terminal and NO_COLOR is unset
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Paint wraps text in color when color output is on
func (p *Printer) Paint(color, text string) string {
	if !p.color || color == "" {
		return text
	}
	return color + text + Reset
}

func (p *Printer) Println(color string, a ...any) {
	fmt.Fprintln(p.out, p.Paint(color, fmt.Sprint(a...)))
}

func (p *Printer) Printf(color, format string, a ...any) {
	fmt.Fprint(p.out, p.Paint(color, fmt.Sprintf(format, a...)))
}

// Bell rings the terminal bell; silent when output is not a terminal
func (p *Printer) Bell() {
	if p.color {
		fmt.Fprint(p.out, "\a")
	}
}

// Prompt returns a colored prompt string
func (p *Printer) Prompt(text string) string {
	return p.Paint(Yellow, text+" > ")
}
