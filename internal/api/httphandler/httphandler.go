package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"

	"github.com/zordinals/zord-indexer/internal/api/usecase"
)

type HttpHandler struct {
	usecase *usecase.Usecase
}

func New(usecase *usecase.Usecase) *HttpHandler {
	return &HttpHandler{
		usecase: usecase,
	}
}

// Mount attaches every read route under /v1, plus the health probe.
func (h *HttpHandler) Mount(router fiber.Router) error {
	if router == nil {
		return errors.New("router is nil")
	}

	router.Get("/healthz", h.GetHealth)

	v1 := router.Group("/v1")
	v1.Get("/status", h.GetStatus)

	v1.Get("/inscriptions", h.GetInscriptions)
	v1.Get("/inscriptions/number/:number", h.GetInscriptionByNumber)
	v1.Get("/inscriptions/:id", h.GetInscriptionById)
	v1.Get("/content/:id", h.GetContent)

	v1.Get("/addresses/:address/inscriptions", h.GetAddressInscriptions)
	v1.Get("/addresses/:address/portfolio", h.GetPortfolio)

	v1.Get("/tokens", h.GetTokens)
	v1.Get("/tokens/:tick", h.GetTokenInfo)
	v1.Get("/tokens/:tick/integrity", h.GetTokenIntegrity)
	v1.Get("/tokens/:tick/rank/:address", h.GetTokenRank)

	v1.Get("/names", h.GetNames)
	v1.Get("/names/:name", h.ResolveName)

	v1.Get("/collections", h.GetCollections)
	v1.Get("/collections/:collection/tokens", h.GetCollectionTokens)
	return nil
}

func (h *HttpHandler) GetHealth(ctx *fiber.Ctx) error {
	return errors.WithStack(ctx.SendString("ok"))
}
