package commands

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"checkers/internal/client/display"
	"checkers/internal/server/game"
	"checkers/internal/stats"
)

// ErrExit is returned by Execute when the user asked to leave
var ErrExit = errors.New("exit requested")

// Client is the state shared by all command handlers
type Client struct {
	Game  *game.Session
	Stats *stats.Store // nil disables the local tally
	Out   *display.Printer
}

// Command defines a client command with its handler
type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(*Client, []string) error
}

// Registry manages command registration and execution
type Registry struct {
	client   *Client
	commands map[string]*Command
}

func NewRegistry(client *Client) *Registry {
	r := &Registry{
		client:   client,
		commands: make(map[string]*Command),
	}

	r.registerGameCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     r.helpHandler,
	})

	r.Register(&Command{
		Name:        "exit",
		ShortName:   "x",
		Description: "Exit the client",
		Usage:       "exit",
		Handler:     exitHandler,
	})

	client.Game.Subscribe(&eventPrinter{client: client})

	return r
}

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
}

// Execute runs one input line. Only ErrExit is returned; other errors are printed.
func (r *Registry) Execute(input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	cmdName := parts[0]
	args := parts[1:]

	// Bare "<row> <col>" is a click
	if _, err := strconv.Atoi(cmdName); err == nil {
		cmdName = "click"
		args = parts
	}

	cmd, exists := r.commands[cmdName]
	if !exists {
		r.client.Out.Println(display.Red, "Unknown command: "+cmdName)
		r.client.Out.Println("", "Type 'help' for available commands")
		return nil
	}

	err := cmd.Handler(r.client, args)
	if errors.Is(err, ErrExit) {
		return err
	}
	if err != nil {
		r.client.Out.Println(display.Red, "Error: "+err.Error())
	}
	return nil
}

func (r *Registry) helpHandler(c *Client, args []string) error {
	out := c.Out

	if len(args) > 0 {
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		out.Printf("", "\n%s - %s\n", out.Paint(display.Cyan, cmd.Name), cmd.Description)
		if cmd.ShortName != "" {
			out.Printf("", "Short form: %s\n", out.Paint(display.Cyan, cmd.ShortName))
		}
		out.Printf("", "Usage: %s\n", cmd.Usage)
		return nil
	}

	// Each command is registered under both names; list it once
	seen := make(map[*Command]bool)
	var cmds []*Command
	for _, cmd := range r.commands {
		if !seen[cmd] {
			seen[cmd] = true
			cmds = append(cmds, cmd)
		}
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })

	out.Printf(display.Cyan, "\nAvailable Commands:\n\n")
	for _, cmd := range cmds {
		out.Printf("", "  [%s] %-8s %s\n", out.Paint(display.Cyan, cmd.ShortName), cmd.Name, cmd.Description)
	}
	out.Println("", "\nA bare '<row> <col>' is a click. Type 'help <command>' for detailed usage")
	return nil
}

func exitHandler(c *Client, args []string) error {
	c.Out.Println(display.Cyan, "Goodbye!")
	return ErrExit
}
