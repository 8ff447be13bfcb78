package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"

	"github.com/zordinals/zord-indexer/common"
	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/internal/api/usecase"
)

type getAddressInscriptionsRequest struct {
	Address string `params:"address"`
	Page    int    `query:"page"`
	Limit   int    `query:"limit"`
}

func (r getAddressInscriptionsRequest) Validate() error {
	var errList []error
	if r.Address == "" {
		errList = append(errList, errors.New("'address' is required"))
	}
	if r.Limit > usecase.MaxLimit {
		errList = append(errList, errors.Errorf("'limit' must not exceed %d", usecase.MaxLimit))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getAddressInscriptionsResponse = common.HttpResponse[usecase.InscriptionPage]

func (h *HttpHandler) GetAddressInscriptions(ctx *fiber.Ctx) error {
	var req getAddressInscriptionsRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	page, err := h.usecase.GetInscriptionsByAddress(ctx.UserContext(), req.Address, req.Page, req.Limit)
	if err != nil {
		return errors.Wrap(err, "error during GetInscriptionsByAddress")
	}

	resp := getAddressInscriptionsResponse{
		Result: page,
	}
	return errors.WithStack(ctx.JSON(resp))
}
