package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"

	"github.com/zordinals/zord-indexer/common"
	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/internal/api/usecase"
	"github.com/zordinals/zord-indexer/internal/ordinals"
)

type getInscriptionByIdRequest struct {
	Id string `params:"id"`
}

func (r getInscriptionByIdRequest) Validate() error {
	var errList []error
	if r.Id == "" {
		errList = append(errList, errors.New("'id' is required"))
	} else if _, _, err := ordinals.ParseInscriptionId(r.Id); err != nil {
		errList = append(errList, errors.New("'id' is not a valid inscription id"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getInscriptionResponse = common.HttpResponse[usecase.InscriptionItem]

func (h *HttpHandler) GetInscriptionById(ctx *fiber.Ctx) error {
	var req getInscriptionByIdRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	item, err := h.usecase.GetInscriptionById(ctx.UserContext(), req.Id)
	if err != nil {
		return errors.Wrap(err, "error during GetInscriptionById")
	}

	resp := getInscriptionResponse{
		Result: item,
	}
	return errors.WithStack(ctx.JSON(resp))
}

type getInscriptionByNumberRequest struct {
	Number uint64 `params:"number"`
}

func (h *HttpHandler) GetInscriptionByNumber(ctx *fiber.Ctx) error {
	var req getInscriptionByNumberRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errs.WithPublicMessage(err, "invalid 'number'")
	}

	item, err := h.usecase.GetInscriptionByNumber(ctx.UserContext(), req.Number)
	if err != nil {
		return errors.Wrap(err, "error during GetInscriptionByNumber")
	}

	resp := getInscriptionResponse{
		Result: item,
	}
	return errors.WithStack(ctx.JSON(resp))
}
