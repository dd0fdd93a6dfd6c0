package controller

import (
	"errors"

	"ai-frontdesk-be/internal/dto"
	"ai-frontdesk-be/internal/pkg/serverutils"
	"ai-frontdesk-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFaqController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
}

type faqController struct {
	faqService service.IFaqService
}

func NewFaqController(faqService service.IFaqService) IFaqController {
	return &faqController{
		faqService: faqService,
	}
}

func (c *faqController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/faq/v1")
	h.Post("/ask", c.Ask)
}

func (c *faqController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.faqService.Ask(ctx.Context(), &req)
	if err != nil {
		// A failed escalation write still yields a usable fallback reply.
		// The caller gets the reply; the failure stays server-side.
		var persistErr *service.PersistenceError
		if res != nil && errors.As(err, &persistErr) {
			return ctx.JSON(serverutils.SuccessResponse("Success answer question", res))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success answer question", res))
}
