package errors

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// HandleError maps a VideoError code to an HTTP status and sends the
// code+message pair to the client. The wrapped cause is only logged.
func HandleError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	if ve, ok := err.(*VideoError); ok {
		if ve.Err != nil {
			log.Printf("video error [%s]: %v", ve.Code, ve.Err)
		}

		var status int
		switch ve.Code {
		case "not_found":
			status = fiber.StatusNotFound
		case "range_required", "invalid_range", "missing_owner", "invalid_upload", "invalid_trim":
			status = fiber.StatusBadRequest
		case "already_ready", "not_retryable", "not_cancellable", "processing":
			status = fiber.StatusConflict
		case "forbidden":
			status = fiber.StatusForbidden
		default:
			status = fiber.StatusInternalServerError
		}

		return c.Status(status).JSON(fiber.Map{
			"error":   ve.Code,
			"message": ve.Message,
		})
	}

	log.Printf("unexpected error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal_error",
		"message": "internal server error",
	})
}
