package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"

	"github.com/zordinals/zord-indexer/common"
	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/internal/api/usecase"
)

type getTokenInfoRequest struct {
	Tick string `params:"tick"`
}

func (r getTokenInfoRequest) Validate() error {
	var errList []error
	if r.Tick == "" {
		errList = append(errList, errors.New("'tick' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getTokenInfoResponse = common.HttpResponse[usecase.TokenInfoResult]

func (h *HttpHandler) GetTokenInfo(ctx *fiber.Ctx) error {
	var req getTokenInfoRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	info, err := h.usecase.GetTokenInfo(ctx.UserContext(), req.Tick)
	if err != nil {
		return errors.Wrap(err, "error during GetTokenInfo")
	}

	resp := getTokenInfoResponse{
		Result: info,
	}
	return errors.WithStack(ctx.JSON(resp))
}
