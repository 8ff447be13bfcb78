package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"

	"github.com/zordinals/zord-indexer/common"
	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/internal/api/usecase"
)

type getTokensRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

func (r getTokensRequest) Validate() error {
	var errList []error
	if r.Limit > usecase.MaxLimit {
		errList = append(errList, errors.Errorf("'limit' must not exceed %d", usecase.MaxLimit))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getTokensResponse = common.HttpResponse[usecase.TokenPage]

func (h *HttpHandler) GetTokens(ctx *fiber.Ctx) error {
	var req getTokensRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	page, err := h.usecase.GetTokens(ctx.UserContext(), req.Page, req.Limit)
	if err != nil {
		return errors.Wrap(err, "error during GetTokens")
	}

	resp := getTokensResponse{
		Result: page,
	}
	return errors.WithStack(ctx.JSON(resp))
}
