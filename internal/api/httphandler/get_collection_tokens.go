package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"

	"github.com/zordinals/zord-indexer/common"
	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/internal/api/usecase"
)

type getCollectionTokensRequest struct {
	Collection string `params:"collection"`
	Page       int    `query:"page"`
	Limit      int    `query:"limit"`
}

func (r getCollectionTokensRequest) Validate() error {
	var errList []error
	if r.Collection == "" {
		errList = append(errList, errors.New("'collection' is required"))
	}
	if r.Limit > usecase.MaxLimit {
		errList = append(errList, errors.Errorf("'limit' must not exceed %d", usecase.MaxLimit))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getCollectionTokensResponse = common.HttpResponse[usecase.NftTokenPage]

func (h *HttpHandler) GetCollectionTokens(ctx *fiber.Ctx) error {
	var req getCollectionTokensRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	page, err := h.usecase.GetCollectionTokens(ctx.UserContext(), req.Collection, req.Page, req.Limit)
	if err != nil {
		return errors.Wrap(err, "error during GetCollectionTokens")
	}

	resp := getCollectionTokensResponse{
		Result: page,
	}
	return errors.WithStack(ctx.JSON(resp))
}
