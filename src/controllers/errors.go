package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/alumnet/alumnet-backend/src/lib"
	"github.com/alumnet/alumnet-backend/src/repository"
)

// errorResponse maps the repository error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is a 500 and gets logged, not leaked.
func errorResponse(c *fiber.Ctx, err error) error {
	var status int
	switch {
	case errors.Is(err, repository.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, repository.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, repository.ErrConflict):
		status = fiber.StatusConflict
	default:
		log.Printf("internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(lib.MessageResponse("Server error"))
	}
	return c.Status(status).JSON(lib.MessageResponse(err.Error()))
}
