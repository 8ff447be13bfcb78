package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"

	"github.com/zordinals/zord-indexer/common"
	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/internal/api/usecase"
)

type resolveNameRequest struct {
	Name string `params:"name"`
}

func (r resolveNameRequest) Validate() error {
	var errList []error
	if r.Name == "" {
		errList = append(errList, errors.New("'name' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type resolveNameResponse = common.HttpResponse[usecase.ResolvedName]

func (h *HttpHandler) ResolveName(ctx *fiber.Ctx) error {
	var req resolveNameRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	resolved, err := h.usecase.ResolveName(ctx.UserContext(), req.Name)
	if err != nil {
		return errors.Wrap(err, "error during ResolveName")
	}

	resp := resolveNameResponse{
		Result: resolved,
	}
	return errors.WithStack(ctx.JSON(resp))
}
