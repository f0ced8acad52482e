package commands

import (
	"fmt"
	"strconv"

	"checkers/internal/client/display"
	"checkers/internal/server/core"
	"checkers/internal/server/engine"
	"checkers/internal/server/game"
)

func (r *Registry) registerGameCommands() {
	r.Register(&Command{
		Name:        "click",
		ShortName:   "c",
		Description: "Click a cell: select your piece or move the selected one",
		Usage:       "click <row> <col>",
		Handler:     clickHandler,
	})

	r.Register(&Command{
		Name:        "restart",
		ShortName:   "n",
		Description: "Abandon the round and start over, black to move",
		Usage:       "restart",
		Handler:     restartHandler,
	})

	r.Register(&Command{
		Name:        "show",
		ShortName:   "s",
		Description: "Show board and game state",
		Usage:       "show",
		Handler:     showHandler,
	})

	r.Register(&Command{
		Name:        "stats",
		ShortName:   "t",
		Description: "Show the local win tally",
		Usage:       "stats [reset]",
		Handler:     statsHandler,
	})
}

func clickHandler(c *Client, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: click <row> <col>")
	}
	row, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid row: %s", args[0])
	}
	col, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid col: %s", args[1])
	}

	cell := core.Cell{Row: row, Col: col}
	res := c.Game.Click(cell)
	describeClick(c.Out, cell, res)

	if res.Changed {
		showBoard(c)
	}
	return nil
}

func describeClick(out *display.Printer, cell core.Cell, res game.ClickResult) {
	switch {
	case !res.Changed:
		out.Println(display.Yellow, "Nothing happens at "+cell.String())
	case res.Selected:
		out.Printf("", "%s selects %s\n", out.ColorName(res.Mover), cell)
	case res.Move.Kind == engine.MoveSimple:
		out.Printf("", "%s moves %s → %s\n", out.ColorName(res.Mover), res.Move.From, res.Move.To)
	case res.Move.Kind == engine.MoveCapture:
		out.Printf("", "%s jumps %s → %s\n", out.ColorName(res.Mover), res.Move.From, res.Move.To)
		if res.Move.Continues {
			out.Println(display.Yellow, "Another capture is available from "+res.Move.To.String())
		}
	}

	if res.Move.Promoted {
		out.Println(display.Green, "Crowned at "+res.Move.To.String())
	}
}

func restartHandler(c *Client, args []string) error {
	c.Game.Restart()
	if c.Stats != nil {
		if err := c.Stats.RecordRestart(); err != nil {
			c.Out.Println(display.Red, "Failed to update stats: "+err.Error())
		}
	}

	c.Out.Println(display.Cyan, "Board reset")
	showBoard(c)
	return nil
}

func showHandler(c *Client, args []string) error {
	showBoard(c)
	return nil
}

func showBoard(c *Client) {
	v := c.Game.View()
	out := c.Out

	out.Println("", "")
	out.RenderBoard(v.Board, v.Selection)
	out.Println("", "")

	status := fmt.Sprintf("Round %d · %s to move", v.Round, out.ColorName(v.Turn))
	if v.Phase == core.PhaseChainCapture {
		status += out.Paint(display.Yellow, " (keep jumping)")
	}
	out.Println("", status)
	out.Printf("", "Pieces: %s %d, %s %d · Wins: %s %d, %s %d\n",
		out.ColorName(core.ColorRed), v.Board.CountByColor(core.ColorRed),
		out.ColorName(core.ColorBlack), v.Board.CountByColor(core.ColorBlack),
		out.ColorName(core.ColorRed), v.RedWins,
		out.ColorName(core.ColorBlack), v.BlackWins,
	)
}

func statsHandler(c *Client, args []string) error {
	if c.Stats == nil {
		return fmt.Errorf("stats are disabled")
	}

	if len(args) > 0 && args[0] == "reset" {
		if err := c.Stats.Reset(); err != nil {
			return err
		}
		c.Out.Println(display.Cyan, "Stats cleared")
		return nil
	}

	tally, err := c.Stats.Load()
	if err != nil {
		return err
	}

	out := c.Out
	out.Println(display.Cyan, "Local stats:")
	out.Printf("", "  Rounds:    %d (restarted %d)\n", tally.RoundsPlayed, tally.Restarts)
	out.Printf("", "  Wins:      %s %d, %s %d (red %.0f%%)\n",
		out.ColorName(core.ColorRed), tally.RedWins,
		out.ColorName(core.ColorBlack), tally.BlackWins,
		tally.RedWinRate())
	out.Printf("", "  Captures:  %s %d, %s %d\n",
		out.ColorName(core.ColorRed), tally.RedCaptures,
		out.ColorName(core.ColorBlack), tally.BlackCaptures)
	if !tally.LastPlayed.IsZero() {
		out.Printf("", "  Last play: %s\n", tally.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

// eventPrinter reports session events and feeds the tally
type eventPrinter struct {
	client *Client
}

func (e *eventPrinter) OnCapture(ev game.CaptureEvent) {
	out := e.client.Out
	out.Bell()
	out.Printf(display.Magenta, "%s takes the %s piece at %s\n", ev.By, ev.Piece.Color, ev.Jumped)

	if e.client.Stats != nil {
		if err := e.client.Stats.RecordCapture(ev.By.String()); err != nil {
			out.Println(display.Red, "Failed to update stats: "+err.Error())
		}
	}
}

func (e *eventPrinter) OnGameOver(ev game.GameOverEvent) {
	out := e.client.Out
	out.Printf(display.Green, "%s wins round %d with %d pieces left after %d moves!\n",
		ev.Winner, ev.Round, ev.WinnerPieces, ev.Moves)
	out.Println(display.Cyan, "New round, black to move")

	if e.client.Stats != nil {
		if err := e.client.Stats.RecordRound(ev.Winner.String()); err != nil {
			out.Println(display.Red, "Failed to update stats: "+err.Error())
		}
	}
}
