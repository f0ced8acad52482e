package http

import (
	"strings"

	"checkers/internal/server/core"

	"github.com/gofiber/fiber/v2"
)

// SeatValidator resolves a bearer token to the seat it grants in a game
type SeatValidator func(gameID, token string) (core.Color, error)

// SeatAuth resolves an optional bearer token into c.Locals("seat").
// Requests without a token continue anonymously; a bad token is rejected.
func SeatAuth(validateSeat SeatValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c.Get("Authorization"))
		if token == "" {
			return c.Next()
		}

		seat, err := validateSeat(c.Params("gameId"), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
				Error:   "invalid or expired seat token",
				Code:    core.ErrUnauthorized,
				Details: err.Error(),
			})
		}

		c.Locals("seat", seat)
		return c.Next()
	}
}

// seatFromContext returns the seat set by SeatAuth, ColorNone for anonymous requests
func seatFromContext(c *fiber.Ctx) core.Color {
	seat, ok := c.Locals("seat").(core.Color)
	if !ok {
		return core.ColorNone
	}
	return seat
}

// extractBearerToken extracts the token from an Authorization header
func extractBearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
