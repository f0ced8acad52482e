package core

// Request types

type CreateGameRequest struct {
	Layout string `json:"layout,omitempty" validate:"omitempty,max=80,layout"`
	Turn   string `json:"turn,omitempty" validate:"omitempty,oneof=red black"`
	Seated bool   `json:"seated,omitempty"`
}

// ClickRequest carries a single cell click; range is checked by the engine, not here
type ClickRequest struct {
	Row *int `json:"row" validate:"required"`
	Col *int `json:"col" validate:"required"`
}

// Response types

type GameResponse struct {
	GameID     string         `json:"gameId"`
	Layout     string         `json:"layout"`
	Turn       string         `json:"turn"`  // "red" or "black"
	Phase      string         `json:"phase"` // "idle", "selected", "chain_capture"
	Selection  *Cell          `json:"selection,omitempty"`
	Pieces     ColorCount     `json:"pieces"`
	Wins       ColorCount     `json:"wins"`
	Round      int            `json:"round"`
	Version    uint64         `json:"version"`
	Seated     bool           `json:"seated"`
	Seats      *SeatsResponse `json:"seats,omitempty"` // Only returned on creation
	LastResult *ResultInfo    `json:"lastResult,omitempty"`
}

type ColorCount struct {
	Red   int `json:"red"`
	Black int `json:"black"`
}

type SeatsResponse struct {
	Red   string `json:"red"`
	Black string `json:"black"`
}

type ResultInfo struct {
	Round  int    `json:"round"`
	Winner string `json:"winner"`
}

type ClickResponse struct {
	Changed bool         `json:"changed"`
	Events  []EventInfo  `json:"events,omitempty"`
	Game    GameResponse `json:"game"`
}

// Event types reported to UI collaborators
const (
	EventSelect    = "select"
	EventMove      = "move"
	EventCapture   = "capture"
	EventPromotion = "promotion"
	EventGameOver  = "game_over"
)

type EventInfo struct {
	Type   string `json:"type"`
	Cell   *Cell  `json:"cell,omitempty"`
	Color  string `json:"color,omitempty"`
	Winner string `json:"winner,omitempty"`
}

type BoardResponse struct {
	Layout string `json:"layout"`
	Board  string `json:"board"` // ASCII representation
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
