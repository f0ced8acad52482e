package processor

import (
	"checkers/internal/server/core"
)

// CommandType defines the type of command being executed
type CommandType int

const (
	CmdCreateGame CommandType = iota
	CmdGetGame
	CmdDeleteGame
	CmdClick
	CmdRestart
	CmdGetBoard
)

// Command is a unified structure for all processor operations
type Command struct {
	Type   CommandType
	GameID string     // For game-specific commands
	Seat   core.Color // Seat proven by a token, ColorNone when anonymous
	Args   any        // Command-specific arguments
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewCreateGameCommand(req core.CreateGameRequest) Command {
	return Command{
		Type: CmdCreateGame,
		Args: req,
	}
}

func NewGetGameCommand(gameID string) Command {
	return Command{
		Type:   CmdGetGame,
		GameID: gameID,
	}
}

func NewClickCommand(gameID string, seat core.Color, req core.ClickRequest) Command {
	return Command{
		Type:   CmdClick,
		GameID: gameID,
		Seat:   seat,
		Args:   req,
	}
}

func NewRestartCommand(gameID string, seat core.Color) Command {
	return Command{
		Type:   CmdRestart,
		GameID: gameID,
		Seat:   seat,
	}
}

func NewDeleteGameCommand(gameID string, seat core.Color) Command {
	return Command{
		Type:   CmdDeleteGame,
		GameID: gameID,
		Seat:   seat,
	}
}

func NewGetBoardCommand(gameID string) Command {
	return Command{
		Type:   CmdGetBoard,
		GameID: gameID,
	}
}
