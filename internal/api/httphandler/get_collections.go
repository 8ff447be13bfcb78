package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"

	"github.com/zordinals/zord-indexer/common"
	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/internal/api/usecase"
)

type getCollectionsRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

func (r getCollectionsRequest) Validate() error {
	var errList []error
	if r.Limit > usecase.MaxLimit {
		errList = append(errList, errors.Errorf("'limit' must not exceed %d", usecase.MaxLimit))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getCollectionsResponse = common.HttpResponse[usecase.CollectionPage]

func (h *HttpHandler) GetCollections(ctx *fiber.Ctx) error {
	var req getCollectionsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	page, err := h.usecase.GetCollections(ctx.UserContext(), req.Page, req.Limit)
	if err != nil {
		return errors.Wrap(err, "error during GetCollections")
	}

	resp := getCollectionsResponse{
		Result: page,
	}
	return errors.WithStack(ctx.JSON(resp))
}
