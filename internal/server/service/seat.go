package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"checkers/internal/server/core"

	"github.com/lixenwraith/auth"
)

// SeatTokenTTL bounds how long a seat token stays valid
const SeatTokenTTL = 24 * time.Hour

var (
	ErrNotSeated    = errors.New("game has no seats")
	ErrInvalidSeat  = errors.New("invalid seat token")
	ErrSeatMismatch = errors.New("seat token belongs to another game")
)

// SeatTokens holds one bearer token per color of a seated game
type SeatTokens struct {
	Red   string
	Black string
}

// IssueSeatTokens signs a token for each color of a seated game
func (s *Service) IssueSeatTokens(gameID string) (*SeatTokens, error) {
	g, err := s.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	if !g.Seated {
		return nil, ErrNotSeated
	}

	red, err := s.seatToken(gameID, core.ColorRed)
	if err != nil {
		return nil, err
	}
	black, err := s.seatToken(gameID, core.ColorBlack)
	if err != nil {
		return nil, err
	}
	return &SeatTokens{Red: red, Black: black}, nil
}

func (s *Service) seatToken(gameID string, color core.Color) (string, error) {
	claims := map[string]any{
		"game": gameID,
		"seat": color.String(),
	}
	token, err := auth.GenerateHS256Token(s.seatSecret, gameID+":"+color.String(), claims, SeatTokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s seat token: %w", color, err)
	}
	return token, nil
}

// ValidateSeatToken verifies a token and returns the game and color it was issued for
func (s *Service) ValidateSeatToken(token string) (string, core.Color, error) {
	subject, _, err := auth.ValidateHS256Token(s.seatSecret, token)
	if err != nil {
		return "", core.ColorNone, fmt.Errorf("%w: %v", ErrInvalidSeat, err)
	}

	idx := strings.LastIndex(subject, ":")
	if idx <= 0 {
		return "", core.ColorNone, ErrInvalidSeat
	}
	color, err := core.ParseColor(subject[idx+1:])
	if err != nil {
		return "", core.ColorNone, fmt.Errorf("%w: %v", ErrInvalidSeat, err)
	}
	return subject[:idx], color, nil
}

// AuthorizeSeat returns the color a token holds in the given game
func (s *Service) AuthorizeSeat(gameID, token string) (core.Color, error) {
	tokenGame, color, err := s.ValidateSeatToken(token)
	if err != nil {
		return core.ColorNone, err
	}
	if tokenGame != gameID {
		return core.ColorNone, ErrSeatMismatch
	}
	return color, nil
}
