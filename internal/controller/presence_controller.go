package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docbuilder-be/internal/pkg/serverutils"
	"docbuilder-be/internal/presence"
)

type IPresenceController interface {
	RegisterRoutes(r fiber.Router)
	Heartbeat(ctx *fiber.Ctx) error
	Viewers(ctx *fiber.Ctx) error
	Leave(ctx *fiber.Ctx) error
}

type presenceController struct {
	tracker *presence.Tracker
}

func NewPresenceController(tracker *presence.Tracker) IPresenceController {
	return &presenceController{
		tracker: tracker,
	}
}

func (c *presenceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/presence/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get(":documentId", c.Viewers)
	h.Post(":documentId", c.Heartbeat)
	h.Delete(":documentId", c.Leave)
}

func (c *presenceController) Heartbeat(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	documentId, _ := uuid.Parse(ctx.Params("documentId"))

	if err := c.tracker.Heartbeat(ctx.Context(), documentId, userId.String()); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success heartbeat", nil))
}

func (c *presenceController) Viewers(ctx *fiber.Ctx) error {
	documentId, _ := uuid.Parse(ctx.Params("documentId"))

	viewers, err := c.tracker.Viewers(ctx.Context(), documentId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list viewers", fiber.Map{
		"viewers": viewers,
	}))
}

func (c *presenceController) Leave(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	documentId, _ := uuid.Parse(ctx.Params("documentId"))

	if err := c.tracker.Leave(ctx.Context(), documentId, userId.String()); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success leave", nil))
}
