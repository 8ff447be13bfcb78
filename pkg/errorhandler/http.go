package errorhandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"

	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/pkg/logger"
	"github.com/zordinals/zord-indexer/pkg/logger/slogx"
)

// NewHTTPErrorHandler maps the error taxonomy onto HTTP status codes: 400 for
// validation failures, 404 for unknown entities, 503 until the indexer is
// ready, 500 for everything else.
func NewHTTPErrorHandler() func(ctx *fiber.Ctx, err error) error {
	return func(ctx *fiber.Ctx, err error) error {
		if e := new(errs.PublicError); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(http.StatusBadRequest).JSON(map[string]any{
				"error": e.Message(),
			}))
		}
		if errors.Is(err, errs.NotFound) {
			return errors.WithStack(ctx.Status(http.StatusNotFound).JSON(map[string]any{
				"error": "not found",
			}))
		}
		if errors.Is(err, errs.InvalidArgument) {
			return errors.WithStack(ctx.Status(http.StatusBadRequest).JSON(map[string]any{
				"error": err.Error(),
			}))
		}
		if errors.Is(err, errs.Unavailable) {
			return errors.WithStack(ctx.Status(http.StatusServiceUnavailable).JSON(map[string]any{
				"error": "indexer is not ready",
			}))
		}
		if e := new(fiber.Error); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(e.Code).SendString(e.Error()))
		}

		logger.ErrorContext(ctx.UserContext(), "Something went wrong, unhandled api error",
			err,
			slogx.String("event", "api_unhandled_error"),
		)

		return errors.WithStack(ctx.Status(http.StatusInternalServerError).JSON(map[string]any{
			"error": "Internal Server Error",
		}))
	}
}
