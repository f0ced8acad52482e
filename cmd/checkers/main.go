// Package main implements a local two-player terminal draughts client.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"checkers/internal/client/commands"
	"checkers/internal/client/display"
	"checkers/internal/server/game"
	"checkers/internal/stats"

	"github.com/chzyer/readline"
)

func main() {
	statsPath := flag.String("stats-path", "", "Directory for the local win tally (default: ~/.local/share/checkers/stats)")
	noStats := flag.Bool("no-stats", false, "Disable the local win tally")
	color := flag.Bool("color", display.ColorEnabled(os.Stdout), "Colored output")
	history := flag.String("history", ".checkers_history", "Readline history file, empty to disable")
	flag.Parse()

	out := display.New(os.Stdout, *color)

	client := &commands.Client{
		Game: game.NewSession(),
		Out:  out,
	}

	if !*noStats {
		store, err := openStats(*statsPath)
		if err != nil {
			out.Println(display.Yellow, "Stats disabled: "+err.Error())
		} else {
			defer store.Close()
			client.Stats = store
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          out.Prompt("checkers"),
		HistoryFile:     *history,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		out.Println(display.Red, err.Error())
		os.Exit(1)
	}
	defer rl.Close()

	out.Println(display.Cyan, "Checkers")
	out.Println("", "Black moves first. Type '<row> <col>' to click a cell, 'help' for commands")

	registry := commands.NewRegistry(client)
	registry.Execute("show")

	for {
		rl.SetPrompt(buildPrompt(client))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if errors.Is(registry.Execute(line), commands.ErrExit) {
			break
		}
	}
}

func openStats(dir string) (*stats.Store, error) {
	if dir == "" {
		base, err := stats.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = base
	}
	return stats.Open(filepath.Clean(dir))
}

func buildPrompt(c *commands.Client) string {
	v := c.Game.View()
	out := c.Out

	prompt := fmt.Sprintf("checkers %s %s", out.Paint(display.Yellow, fmt.Sprintf("[r%d]", v.Round)), out.ColorName(v.Turn))
	if v.Selection != nil {
		prompt += out.Paint(display.White, " @"+v.Selection.String())
	}
	return prompt + out.Paint(display.Yellow, " > ")
}
