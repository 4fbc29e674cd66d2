package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docbuilder-be/internal/entity"
	"docbuilder-be/pkg/blocks"
	"docbuilder-be/pkg/builder"
)

// ErrorHandlerMiddleware maps domain errors to HTTP statuses so handlers
// can simply return them.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var validationFailed *ValidationFailedError
		if errors.As(err, &validationFailed) {
			return ctx.Status(fiber.StatusBadRequest).
				JSON(ErrorResponse("Validation failed", validationFailed.Messages))
		}

		var blockInvalid *blocks.ValidationError
		if errors.As(err, &blockInvalid) {
			return ctx.Status(fiber.StatusUnprocessableEntity).
				JSON(ErrorResponse("Invalid block payload", blockInvalid.Error()))
		}

		if errors.Is(err, entity.ErrInvalidVariables) {
			return ctx.Status(fiber.StatusBadRequest).
				JSON(ErrorResponse("Invalid variables", err.Error()))
		}

		if errors.Is(err, entity.ErrInvalidAction) {
			return ctx.Status(fiber.StatusBadRequest).
				JSON(ErrorResponse("Invalid builder action", err.Error()))
		}

		if errors.Is(err, builder.ErrDocumentLocked) {
			return ctx.Status(fiber.StatusLocked).
				JSON(ErrorResponse("Document is locked", err.Error()))
		}

		if errors.Is(err, entity.ErrInvalidTransition) {
			return ctx.Status(fiber.StatusConflict).
				JSON(ErrorResponse("Invalid lifecycle transition", err.Error()))
		}

		if errors.Is(err, entity.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).
				JSON(ErrorResponse("Not found", err.Error()))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).
				JSON(ErrorResponse(fiberErr.Message, nil))
		}

		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse("Internal server error", err.Error()))
	}
}
