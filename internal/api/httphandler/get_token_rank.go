package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"

	"github.com/zordinals/zord-indexer/common"
	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/internal/api/usecase"
)

type getTokenRankRequest struct {
	Tick    string `params:"tick"`
	Address string `params:"address"`
}

func (r getTokenRankRequest) Validate() error {
	var errList []error
	if r.Tick == "" {
		errList = append(errList, errors.New("'tick' is required"))
	}
	if r.Address == "" {
		errList = append(errList, errors.New("'address' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getTokenRankResponse = common.HttpResponse[usecase.TokenRank]

func (h *HttpHandler) GetTokenRank(ctx *fiber.Ctx) error {
	var req getTokenRankRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	rank, err := h.usecase.GetTokenRank(ctx.UserContext(), req.Tick, req.Address)
	if err != nil {
		return errors.Wrap(err, "error during GetTokenRank")
	}

	resp := getTokenRankResponse{
		Result: rank,
	}
	return errors.WithStack(ctx.JSON(resp))
}
