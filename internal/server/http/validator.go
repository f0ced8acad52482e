package http

import (
	"fmt"
	"reflect"
	"strings"

	"checkers/internal/server/core"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("layout", validLayoutChars)
	return v
}

// validLayoutChars admits only piece letters, empty-run digits and row separators
func validLayoutChars(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if !strings.ContainsRune("rRbB12345678/", r) {
			return false
		}
	}
	return true
}

// validationMiddleware parses and validates JSON bodies into c.Locals("validatedBody")
func validationMiddleware(c *fiber.Ctx) error {
	// Skip validation for GET, DELETE, OPTIONS
	method := c.Method()
	if method == fiber.MethodGet || method == fiber.MethodDelete || method == fiber.MethodOptions {
		return c.Next()
	}

	// Determine request type based on path
	path := c.Path()
	var requestType interface{}

	switch {
	case strings.HasSuffix(path, "/games") && method == fiber.MethodPost:
		requestType = &core.CreateGameRequest{}
	case strings.HasSuffix(path, "/clicks") && method == fiber.MethodPost:
		requestType = &core.ClickRequest{}
	default:
		return c.Next() // No validation for unknown endpoints
	}

	// An empty body is an empty object, so POST /games works without one
	if len(c.Body()) > 0 {
		if err := c.BodyParser(requestType); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
				Error:   "invalid request body",
				Code:    core.ErrInvalidRequest,
				Details: err.Error(),
			})
		}
	}

	// Validate
	if errs := validate.Struct(requestType); errs != nil {
		var details strings.Builder
		for _, err := range errs.(validator.ValidationErrors) {
			if details.Len() > 0 {
				details.WriteString("; ")
			}
			switch err.Tag() {
			case "required":
				details.WriteString(fmt.Sprintf("%s is required", err.Field()))
			case "oneof":
				details.WriteString(fmt.Sprintf("%s must be one of [%s]", err.Field(), err.Param()))
			case "min":
				if err.Type().Kind() == reflect.String {
					details.WriteString(fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param()))
				} else {
					details.WriteString(fmt.Sprintf("%s must be at least %s", err.Field(), err.Param()))
				}
			case "max":
				if err.Type().Kind() == reflect.String {
					details.WriteString(fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param()))
				} else {
					details.WriteString(fmt.Sprintf("%s must be at most %s", err.Field(), err.Param()))
				}
			case "layout":
				details.WriteString(fmt.Sprintf("%s may only contain r, R, b, B, 1-8 and /", err.Field()))
			case "omitempty": // Skip, a control tag that doesn't error
				continue
			default:
				details.WriteString(fmt.Sprintf("%s failed %s validation", err.Field(), err.Tag()))
			}
		}

		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: details.String(),
		})
	}

	// Store validated body for handler use
	c.Locals("validatedBody", requestType)
	c.Locals("validated", true)

	return c.Next()
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}