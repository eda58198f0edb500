package handlers

import (
	"errors"

	"storerating/internal/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
	Errors  []string       `json:"errors,omitempty"`
}

// NewErrorHandler maps application errors to their status and public
// message. Anything unrecognised is a 500 whose cause is logged, not sent.
func NewErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if appErr := apperrors.As(err); appErr != nil {
			if appErr.Code() == apperrors.CodeInternal {
				log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
			}
			return c.Status(appErr.HTTPStatus()).JSON(ErrorResponse{
				Code:    appErr.Code(),
				Message: appErr.Message(),
				Errors:  appErr.Details(),
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Code:    codeForStatus(fiberErr.Code),
				Message: fiberErr.Message,
			})
		}

		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("unhandled error")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Code:    apperrors.CodeInternal,
			Message: "internal server error",
		})
	}
}

func codeForStatus(status int) apperrors.Code {
	switch status {
	case fiber.StatusNotFound:
		return apperrors.CodeNotFound
	case fiber.StatusUnauthorized:
		return apperrors.CodeUnauthorized
	case fiber.StatusForbidden:
		return apperrors.CodeForbidden
	case fiber.StatusInternalServerError:
		return apperrors.CodeInternal
	default:
		if status >= 400 && status < 500 {
			return apperrors.CodeBadRequest
		}
		return apperrors.CodeInternal
	}
}

// parseBody decodes the JSON body into out or fails with a 400.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	return nil
}
