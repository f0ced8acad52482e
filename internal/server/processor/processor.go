package processor

import (
	"errors"
	"fmt"
	"log"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
	"checkers/internal/server/engine"
	"checkers/internal/server/game"
	"checkers/internal/server/service"
)

// Processor handles command execution and coordinates between the service and the sessions
type Processor struct {
	svc *service.Service
}

func New(svc *service.Service) *Processor {
	return &Processor{svc: svc}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdClick:
		return p.handleClick(cmd)
	case CmdRestart:
		return p.handleRestart(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

// handleCreateGame creates a session from the standard or a supplied layout
func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	layout := board.StartingLayout
	if args.Layout != "" {
		layout = args.Layout
	}
	turn := core.ColorBlack
	if args.Turn != "" {
		c, err := core.ParseColor(args.Turn)
		if err != nil {
			return p.errorResponse(err.Error(), core.ErrInvalidRequest)
		}
		turn = c
	}

	session, err := game.NewSessionFromLayout(layout, turn)
	if err != nil {
		return p.errorResponse(fmt.Sprintf("invalid layout: %v", err), core.ErrInvalidLayout)
	}

	gameID := p.svc.GenerateGameID()
	g, err := p.svc.CreateGame(gameID, session, args.Seated)
	if err != nil {
		return p.errorResponse(fmt.Sprintf("failed to create game: %v", err), core.ErrInternalError)
	}

	response := p.buildGameResponse(g)
	if g.Seated {
		tokens, err := p.svc.IssueSeatTokens(gameID)
		if err != nil {
			if delErr := p.svc.DeleteGame(gameID); delErr != nil {
				log.Printf("Failed to drop game %s after seat error: %v", gameID, delErr)
			}
			return p.errorResponse(fmt.Sprintf("failed to issue seats: %v", err), core.ErrInternalError)
		}
		response.Seats = &core.SeatsResponse{Red: tokens.Red, Black: tokens.Black}
	}

	log.Printf("Game %s created (seated=%t, turn=%s)", gameID, g.Seated, turn)

	return ProcessorResponse{
		Success: true,
		Data:    response,
	}
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(g),
	}
}

// handleClick forwards a cell click to the session. Illegal clicks succeed with changed=false.
func (p *Processor) handleClick(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.ClickRequest)
	if !ok || args.Row == nil || args.Col == nil {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	seat := core.ColorNone
	if g.Seated {
		if cmd.Seat == core.ColorNone {
			return p.errorResponse("seat token required", core.ErrUnauthorized)
		}
		seat = cmd.Seat
	}

	cell := core.Cell{Row: *args.Row, Col: *args.Col}
	result, err := g.Session.ClickAs(seat, cell)
	if errors.Is(err, game.ErrNotYourTurn) {
		return p.errorResponse(fmt.Sprintf("%s is to move", result.Mover), core.ErrNotYourSeat)
	}

	if result.Changed {
		p.svc.NotifyChange(g.ID, g.Session.Version())
	}

	return ProcessorResponse{
		Success: true,
		Data: core.ClickResponse{
			Changed: result.Changed,
			Events:  buildEvents(cell, result),
			Game:    p.buildGameResponse(g),
		},
	}
}

func (p *Processor) handleRestart(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}
	if g.Seated && cmd.Seat == core.ColorNone {
		return p.errorResponse("seat token required", core.ErrUnauthorized)
	}

	g.Session.Restart()
	p.svc.NotifyChange(g.ID, g.Session.Version())

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(g),
	}
}

func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}
	if g.Seated && cmd.Seat == core.ColorNone {
		return p.errorResponse("seat token required", core.ErrUnauthorized)
	}

	if err := p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{Success: true}
}

func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	b := g.Session.Board()
	return ProcessorResponse{
		Success: true,
		Data: core.BoardResponse{
			Layout: b.Layout(),
			Board:  b.ToASCII(),
		},
	}
}

// buildEvents lists what a click did, in the order it happened
func buildEvents(cell core.Cell, r game.ClickResult) []core.EventInfo {
	var events []core.EventInfo
	mover := r.Mover.String()

	if r.Selected {
		c := cell
		events = append(events, core.EventInfo{Type: core.EventSelect, Cell: &c, Color: mover})
	}

	if r.Move.Kind != engine.MoveNone {
		to := r.Move.To
		events = append(events, core.EventInfo{Type: core.EventMove, Cell: &to, Color: mover})
	}

	if r.Capture != nil {
		jumped := r.Capture.Jumped
		events = append(events, core.EventInfo{
			Type:  core.EventCapture,
			Cell:  &jumped,
			Color: r.Capture.Piece.Color.String(),
		})
	}

	if r.Move.Promoted {
		to := r.Move.To
		events = append(events, core.EventInfo{Type: core.EventPromotion, Cell: &to, Color: mover})
	}

	if r.GameOver != nil {
		events = append(events, core.EventInfo{Type: core.EventGameOver, Winner: r.GameOver.Winner.String()})
	}

	return events
}

func (p *Processor) buildGameResponse(g *service.Game) core.GameResponse {
	v := g.Session.View()

	resp := core.GameResponse{
		GameID:    g.ID,
		Layout:    v.Board.Layout(),
		Turn:      v.Turn.String(),
		Phase:     v.Phase.String(),
		Selection: v.Selection,
		Pieces: core.ColorCount{
			Red:   v.Board.CountByColor(core.ColorRed),
			Black: v.Board.CountByColor(core.ColorBlack),
		},
		Wins: core.ColorCount{
			Red:   v.RedWins,
			Black: v.BlackWins,
		},
		Round:   v.Round,
		Version: v.Version,
		Seated:  g.Seated,
	}

	if v.LastResult != nil {
		resp.LastResult = &core.ResultInfo{
			Round:  v.LastResult.Round,
			Winner: v.LastResult.Winner.String(),
		}
	}

	return resp
}

// errorResponse creates error response
func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}
