package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"

	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/internal/ordinals"
)

type getContentRequest struct {
	Id string `params:"id"`
}

func (r getContentRequest) Validate() error {
	var errList []error
	if r.Id == "" {
		errList = append(errList, errors.New("'id' is required"))
	} else if _, _, err := ordinals.ParseInscriptionId(r.Id); err != nil {
		errList = append(errList, errors.New("'id' is not a valid inscription id"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

// GetContent serves the raw inscription body with its original content type.
func (h *HttpHandler) GetContent(ctx *fiber.Ctx) error {
	var req getContentRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	contentType, content, err := h.usecase.GetInscriptionContent(ctx.UserContext(), req.Id)
	if err != nil {
		return errors.Wrap(err, "error during GetInscriptionContent")
	}

	ctx.Set(fiber.HeaderContentType, contentType)
	return errors.WithStack(ctx.Send(content))
}
