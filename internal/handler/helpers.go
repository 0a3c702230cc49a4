package handler

import (
	"errors"
	"log"

	"go-material-inventory/internal/apperror"
	"go-material-inventory/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errInvalidJSON = apperror.Validation("Invalid JSON")

// getUserID returns the caller set by middleware.RequireAuth
func getUserID(c *fiber.Ctx) uuid.UUID {
	userID, _ := c.Locals(middleware.LocalUserID).(uuid.UUID)
	return userID
}

// paramUUID parses the named route parameter, answering 400 with msg when it is not a UUID
func paramUUID(c *fiber.Ctx, name, msg string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperror.Validation(msg)
	}
	return id, nil
}

// ErrorHandler renders every error as {"msg": ...}. Internal details only go to the log.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		if appErr.Kind == apperror.KindInternal {
			log.Printf("%s %s: %v", c.Method(), c.Path(), appErr.Err)
		}
		return c.Status(appErr.Status()).JSON(fiber.Map{"msg": appErr.Msg})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"msg": fiberErr.Message})
	}

	log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"msg": "Server error"})
}

// Health reports liveness
// GET /api/v1/health
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
