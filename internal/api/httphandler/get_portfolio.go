package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"

	"github.com/zordinals/zord-indexer/common"
	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/internal/api/usecase"
)

type getPortfolioRequest struct {
	Address string `params:"address"`
}

func (r getPortfolioRequest) Validate() error {
	var errList []error
	if r.Address == "" {
		errList = append(errList, errors.New("'address' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getPortfolioResponse = common.HttpResponse[usecase.Portfolio]

func (h *HttpHandler) GetPortfolio(ctx *fiber.Ctx) error {
	var req getPortfolioRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	portfolio, err := h.usecase.GetPortfolio(ctx.UserContext(), req.Address)
	if err != nil {
		return errors.Wrap(err, "error during GetPortfolio")
	}

	resp := getPortfolioResponse{
		Result: portfolio,
	}
	return errors.WithStack(ctx.JSON(resp))
}
