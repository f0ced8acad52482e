package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"checkers/internal/server/core"
	"checkers/internal/server/processor"
	"checkers/internal/server/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const rateLimitRate = 10 // req/sec

// HTTPHandler handles HTTP requests and routes them to the processor
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

func NewFiberApp(proc *processor.Processor, svc *service.Service, devMode bool) *fiber.App {
	h := NewHTTPHandler(proc, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: service.WaitTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	maxReq := rateLimitRate
	if devMode {
		maxReq = rateLimitRate * 2
	}
	api.Use(limiter.New(limiter.Config{
		Max:        maxReq,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			if xff := c.Get("X-Forwarded-For"); xff != "" {
				if idx := strings.Index(xff, ","); idx != -1 {
					return strings.TrimSpace(xff[:idx])
				}
				return xff
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	seatAuth := SeatAuth(svc.AuthorizeSeat)

	api.Post("/games", h.CreateGame)
	api.Get("/games/:gameId", h.GetGame)
	api.Delete("/games/:gameId", seatAuth, h.DeleteGame)
	api.Post("/games/:gameId/clicks", seatAuth, h.Click)
	api.Post("/games/:gameId/restart", seatAuth, h.Restart)
	api.Get("/games/:gameId/board", h.GetBoard)

	return app
}

// contentTypeValidator ensures POST requests carry JSON
func contentTypeValidator(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		contentType := c.Get("Content-Type")
		if contentType != "" && !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrGameNotFound
		case fiber.StatusBadRequest:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// errorStatus maps processor error codes to HTTP status codes
func errorStatus(code string) int {
	switch code {
	case core.ErrGameNotFound:
		return fiber.StatusNotFound
	case core.ErrUnauthorized:
		return fiber.StatusUnauthorized
	case core.ErrNotYourSeat:
		return fiber.StatusForbidden
	case core.ErrInternalError:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

func respond(c *fiber.Ctx, resp processor.ProcessorResponse) error {
	if !resp.Success {
		return c.Status(errorStatus(resp.Error.Code)).JSON(resp.Error)
	}
	return c.JSON(resp.Data)
}

func invalidGameID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
		Error:   "invalid game ID format",
		Code:    core.ErrInvalidRequest,
		Details: "game ID must be a valid UUID",
	})
}

// Health check endpoint with storage status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"storage": h.svc.GetStorageHealth(),
		"games":   h.svc.GameCount(),
	})
}

// CreateGame creates a game from the standard or a supplied layout
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation bypass detected",
			Code:  core.ErrInternalError,
		})
	}
	req := *(c.Locals("validatedBody").(*core.CreateGameRequest))

	resp := h.proc.Execute(processor.NewCreateGameCommand(req))
	if !resp.Success {
		return c.Status(errorStatus(resp.Error.Code)).JSON(resp.Error)
	}

	return c.Status(fiber.StatusCreated).JSON(resp.Data)
}

// GetGame returns the game state, optionally long-polling until it moves past ?version=N
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	if c.Query("wait", "false") != "true" {
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)))
	}

	g, err := h.svc.GetGame(gameID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  core.ErrGameNotFound,
		})
	}

	version, err := strconv.ParseUint(c.Query("version"), 10, 64)
	if err != nil || version != g.Session.Version() {
		// No usable version or already stale, answer immediately
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)))
	}

	ctx := c.Context()
	notify := h.svc.RegisterWait(ctx, gameID, version)

	select {
	case <-notify:
		// Changed, timed out or deleted; the fresh read tells which
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)))
	case <-ctx.Done():
		return nil
	}
}

// Click submits a click on one cell
func (h *HTTPHandler) Click(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation bypass detected",
			Code:  core.ErrInternalError,
		})
	}
	req := *(c.Locals("validatedBody").(*core.ClickRequest))

	return respond(c, h.proc.Execute(processor.NewClickCommand(gameID, seatFromContext(c), req)))
}

// Restart abandons the current round
func (h *HTTPHandler) Restart(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	return respond(c, h.proc.Execute(processor.NewRestartCommand(gameID, seatFromContext(c))))
}

// DeleteGame ends and cleans up a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	resp := h.proc.Execute(processor.NewDeleteGameCommand(gameID, seatFromContext(c)))
	if !resp.Success {
		return c.Status(errorStatus(resp.Error.Code)).JSON(resp.Error)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetBoard returns an ASCII rendering of the board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	return respond(c, h.proc.Execute(processor.NewGetBoardCommand(gameID)))
}
