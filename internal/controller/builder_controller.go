package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docbuilder-be/internal/dto"
	"docbuilder-be/internal/pkg/serverutils"
	"docbuilder-be/internal/service"
)

type IBuilderController interface {
	RegisterRoutes(r fiber.Router)
	OpenSession(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	CloseSession(ctx *fiber.Ctx) error
	Dispatch(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
}

type builderController struct {
	builderService service.IBuilderService
}

func NewBuilderController(builderService service.IBuilderService) IBuilderController {
	return &builderController{
		builderService: builderService,
	}
}

func (c *builderController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/builder/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post(":documentId/session", c.OpenSession)
	h.Get(":documentId/session", c.GetSession)
	h.Delete(":documentId/session", c.CloseSession)
	h.Post(":documentId/actions", c.Dispatch)
	h.Post(":documentId/save", c.Save)
}

func (c *builderController) OpenSession(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	documentId, _ := uuid.Parse(ctx.Params("documentId"))

	res, err := c.builderService.OpenSession(ctx.Context(), userId, documentId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success open builder session", res))
}

func (c *builderController) GetSession(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	documentId, _ := uuid.Parse(ctx.Params("documentId"))

	res, err := c.builderService.GetSession(ctx.Context(), userId, documentId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show builder session", res))
}

func (c *builderController) CloseSession(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	documentId, _ := uuid.Parse(ctx.Params("documentId"))

	c.builderService.CloseSession(ctx.Context(), userId, documentId)

	return ctx.JSON(serverutils.SuccessResponse("Success close builder session", nil))
}

func (c *builderController) Dispatch(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.DispatchActionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.DocumentId, _ = uuid.Parse(ctx.Params("documentId"))
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.builderService.Dispatch(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success dispatch action", res))
}

func (c *builderController) Save(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.SaveSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.DocumentId, _ = uuid.Parse(ctx.Params("documentId"))

	res, err := c.builderService.Save(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save document", res))
}
