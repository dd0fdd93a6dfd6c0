package controller

import (
	"strconv"

	"ai-frontdesk-be/internal/dto"
	"ai-frontdesk-be/internal/pkg/serverutils"
	"ai-frontdesk-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISupervisorController interface {
	RegisterRoutes(r fiber.Router)
	ListRequests(ctx *fiber.Ctx) error
	ShowRequest(ctx *fiber.Ctx) error
	Resolve(ctx *fiber.Ctx) error
	RebuildKnowledge(ctx *fiber.Ctx) error
}

type supervisorController struct {
	supervisorService service.ISupervisorService
}

func NewSupervisorController(supervisorService service.ISupervisorService) ISupervisorController {
	return &supervisorController{
		supervisorService: supervisorService,
	}
}

func (c *supervisorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/supervisor/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/requests", c.ListRequests)
	h.Get("/requests/:id", c.ShowRequest)
	h.Post("/requests/:id/resolve", c.Resolve)
	h.Post("/knowledge/rebuild", c.RebuildKnowledge)
}

func (c *supervisorController) ListRequests(ctx *fiber.Ctx) error {
	status := ctx.Query("status")

	res, err := c.supervisorService.ListRequests(ctx.Context(), status)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list help requests", res))
}

func (c *supervisorController) ShowRequest(ctx *fiber.Ctx) error {
	id, err := parseLedgerId(ctx.Params("id"))
	if err != nil {
		return err
	}

	res, err := c.supervisorService.ShowRequest(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show help request", res))
}

func (c *supervisorController) Resolve(ctx *fiber.Ctx) error {
	id, err := parseLedgerId(ctx.Params("id"))
	if err != nil {
		return err
	}

	var req dto.ResolveRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.supervisorService.Resolve(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success resolve help request", res))
}

func (c *supervisorController) RebuildKnowledge(ctx *fiber.Ctx) error {
	res, err := c.supervisorService.RebuildKnowledge(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success enqueue knowledge rebuild", res))
}

func parseLedgerId(param string) (uint, error) {
	id, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid request id")
	}
	return uint(id), nil
}
