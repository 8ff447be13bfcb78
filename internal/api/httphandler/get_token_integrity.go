package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"

	"github.com/zordinals/zord-indexer/common"
	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/internal/api/usecase"
)

type getTokenIntegrityRequest struct {
	Tick string `params:"tick"`
}

func (r getTokenIntegrityRequest) Validate() error {
	var errList []error
	if r.Tick == "" {
		errList = append(errList, errors.New("'tick' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getTokenIntegrityResponse = common.HttpResponse[usecase.TokenIntegrity]

func (h *HttpHandler) GetTokenIntegrity(ctx *fiber.Ctx) error {
	var req getTokenIntegrityRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	integrity, err := h.usecase.GetTokenIntegrity(ctx.UserContext(), req.Tick)
	if err != nil {
		return errors.Wrap(err, "error during GetTokenIntegrity")
	}

	resp := getTokenIntegrityResponse{
		Result: integrity,
	}
	return errors.WithStack(ctx.JSON(resp))
}
