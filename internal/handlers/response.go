package handlers

import (
	"errors"

	"storerate/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    interface{}         `json:"data,omitempty"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
}

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Envelope{Success: true, Message: message, Data: data})
}

func ok(c *fiber.Ctx, message string, data interface{}) error {
	return respond(c, fiber.StatusOK, message, data)
}

func created(c *fiber.Ctx, message string, data interface{}) error {
	return respond(c, fiber.StatusCreated, message, data)
}

// ErrorHandler renders errors returned by handlers and middleware. Categorized
// errors keep their message; anything else is logged and hidden.
func ErrorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			if appErr.Kind == apperr.KindInternal {
				logger.WithFields(logrus.Fields{
					"method":     c.Method(),
					"path":       c.Path(),
					"request_id": c.Locals("requestid"),
				}).WithError(appErr.Err).Error("request failed")
			}
			return c.Status(appErr.Kind.Status()).JSON(Envelope{
				Message: appErr.Message,
				Errors:  appErr.Fields,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(Envelope{Message: fiberErr.Message})
		}

		logger.WithFields(logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"request_id": c.Locals("requestid"),
		}).WithError(err).Error("unhandled error")
		return c.Status(fiber.StatusInternalServerError).JSON(Envelope{Message: "Internal server error"})
	}
}

// NotFound answers requests that matched no route.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(Envelope{Message: "Route not found"})
}
