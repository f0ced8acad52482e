package core

// Error codes
const (
	ErrGameNotFound      = "GAME_NOT_FOUND"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent    = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrInvalidLayout     = "INVALID_LAYOUT"
	ErrInternalError     = "INTERNAL_ERROR"
	ErrUnauthorized      = "UNAUTHORIZED"
	ErrNotYourSeat       = "NOT_YOUR_SEAT"
)
