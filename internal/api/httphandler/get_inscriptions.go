package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"

	"github.com/zordinals/zord-indexer/common"
	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/internal/api/usecase"
)

type getInscriptionsRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

func (r getInscriptionsRequest) Validate() error {
	var errList []error
	if r.Page < 0 {
		errList = append(errList, errors.New("'page' must not be negative"))
	}
	if r.Limit < 0 {
		errList = append(errList, errors.New("'limit' must not be negative"))
	}
	if r.Limit > usecase.MaxLimit {
		errList = append(errList, errors.Errorf("'limit' must not exceed %d", usecase.MaxLimit))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getInscriptionsResponse = common.HttpResponse[usecase.InscriptionPage]

func (h *HttpHandler) GetInscriptions(ctx *fiber.Ctx) error {
	var req getInscriptionsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	page, err := h.usecase.GetInscriptions(ctx.UserContext(), req.Page, req.Limit)
	if err != nil {
		return errors.Wrap(err, "error during GetInscriptions")
	}

	resp := getInscriptionsResponse{
		Result: page,
	}
	return errors.WithStack(ctx.JSON(resp))
}
