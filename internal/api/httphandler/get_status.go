package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"

	"github.com/zordinals/zord-indexer/common"
	"github.com/zordinals/zord-indexer/internal/api/usecase"
)

type getStatusResponse = common.HttpResponse[usecase.Status]

func (h *HttpHandler) GetStatus(ctx *fiber.Ctx) error {
	status, err := h.usecase.GetStatus(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during GetStatus")
	}

	resp := getStatusResponse{
		Result: status,
	}
	return errors.WithStack(ctx.JSON(resp))
}
