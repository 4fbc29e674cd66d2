package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docbuilder-be/internal/dto"
	"docbuilder-be/internal/pkg/serverutils"
	"docbuilder-be/internal/service"
)

type IVersionController interface {
	RegisterRoutes(r fiber.Router)
	History(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Compare(ctx *fiber.Ctx) error
	Restore(ctx *fiber.Ctx) error
}

type versionController struct {
	versionService service.IVersionService
}

func NewVersionController(versionService service.IVersionService) IVersionController {
	return &versionController{
		versionService: versionService,
	}
}

func (c *versionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/version/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get(":documentId", c.History)
	h.Get(":documentId/compare", c.Compare)
	h.Get(":documentId/:versionNumber", c.Show)
	h.Post(":documentId/restore", c.Restore)
}

func (c *versionController) History(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	documentId, _ := uuid.Parse(ctx.Params("documentId"))

	res, err := c.versionService.History(ctx.Context(), userId, documentId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list versions", res))
}

func (c *versionController) Show(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	documentId, _ := uuid.Parse(ctx.Params("documentId"))
	versionNumber, err := strconv.Atoi(ctx.Params("versionNumber"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "version number must be an integer")
	}

	res, err := c.versionService.Show(ctx.Context(), userId, documentId, versionNumber)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show version", res))
}

// Compare diffs ?from= against ?to=. Zero (or omitted) means the live
// document content.
func (c *versionController) Compare(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	documentId, _ := uuid.Parse(ctx.Params("documentId"))
	from, _ := strconv.Atoi(ctx.Query("from", "0"))
	to, _ := strconv.Atoi(ctx.Query("to", "0"))

	res, err := c.versionService.Compare(ctx.Context(), userId, documentId, from, to)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success compare versions", res))
}

func (c *versionController) Restore(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.RestoreVersionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.DocumentId, _ = uuid.Parse(ctx.Params("documentId"))
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.versionService.Restore(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success restore version", res))
}
