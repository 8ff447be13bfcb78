package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"

	"github.com/zordinals/zord-indexer/common"
	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/internal/api/usecase"
)

type getNamesRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

func (r getNamesRequest) Validate() error {
	var errList []error
	if r.Limit > usecase.MaxLimit {
		errList = append(errList, errors.Errorf("'limit' must not exceed %d", usecase.MaxLimit))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getNamesResponse = common.HttpResponse[usecase.NamePage]

func (h *HttpHandler) GetNames(ctx *fiber.Ctx) error {
	var req getNamesRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	page, err := h.usecase.GetNames(ctx.UserContext(), req.Page, req.Limit)
	if err != nil {
		return errors.Wrap(err, "error during GetNames")
	}

	resp := getNamesResponse{
		Result: page,
	}
	return errors.WithStack(ctx.JSON(resp))
}
