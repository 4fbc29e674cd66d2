package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docbuilder-be/internal/dto"
	"docbuilder-be/internal/pkg/serverutils"
	"docbuilder-be/internal/service"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	UpdateTitle(ctx *fiber.Ctx) error
	UpdateContent(ctx *fiber.Ctx) error
	UpdateVariables(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Preview(ctx *fiber.Ctx) error
	Send(ctx *fiber.Ctx) error
	View(ctx *fiber.Ctx) error
	Sign(ctx *fiber.Ctx) error
	Decline(ctx *fiber.Ctx) error
	Complete(ctx *fiber.Ctx) error
	Expire(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{
		documentService: documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")

	// Recipient-facing lifecycle endpoints: the signer has no account.
	h.Post(":id/view", c.View)
	h.Post(":id/sign", c.Sign)
	h.Post(":id/decline", c.Decline)

	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Put(":id/title", c.UpdateTitle)
	h.Put(":id/content", c.UpdateContent)
	h.Put(":id/variables", c.UpdateVariables)
	h.Delete(":id", c.Delete)
	h.Get(":id/preview", c.Preview)
	h.Post(":id/send", c.Send)
	h.Post(":id/complete", c.Complete)
	h.Post(":id/expire", c.Expire)
}

func (c *documentController) Create(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.CreateDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.documentService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create document", res))
}

func (c *documentController) Show(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.documentService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show document", res))
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	status := ctx.Query("status")
	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))
	offset, _ := strconv.Atoi(ctx.Query("offset", "0"))

	res, err := c.documentService.List(ctx.Context(), userId, status, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list documents", res))
}

func (c *documentController) UpdateTitle(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.UpdateTitleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id, _ = uuid.Parse(ctx.Params("id"))
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.documentService.UpdateTitle(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update title", nil))
}

func (c *documentController) UpdateContent(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.UpdateContentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id, _ = uuid.Parse(ctx.Params("id"))
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.documentService.UpdateContent(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update content", nil))
}

func (c *documentController) UpdateVariables(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.UpdateVariablesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id, _ = uuid.Parse(ctx.Params("id"))
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.documentService.UpdateVariables(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update variables", nil))
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.documentService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete document", nil))
}

func (c *documentController) Preview(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	req := dto.PreviewDocumentRequest{
		Recipient: dto.PartyPayload{
			Name:    ctx.Query("recipient_name"),
			Email:   ctx.Query("recipient_email"),
			Company: ctx.Query("recipient_company"),
			Phone:   ctx.Query("recipient_phone"),
		},
		Sender: dto.PartyPayload{
			Name:    ctx.Query("sender_name"),
			Email:   ctx.Query("sender_email"),
			Company: ctx.Query("sender_company"),
		},
		EditorView: ctx.QueryBool("editor_view"),
	}
	req.Id, _ = uuid.Parse(ctx.Params("id"))

	res, err := c.documentService.Preview(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success preview document", res))
}

func (c *documentController) Send(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.SendDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id, _ = uuid.Parse(ctx.Params("id"))

	if err := c.documentService.Send(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send document", nil))
}

func (c *documentController) View(ctx *fiber.Ctx) error {
	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.documentService.MarkViewed(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success mark viewed", nil))
}

func (c *documentController) Sign(ctx *fiber.Ctx) error {
	var req dto.SignDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id, _ = uuid.Parse(ctx.Params("id"))
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.documentService.Sign(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success sign document", nil))
}

func (c *documentController) Decline(ctx *fiber.Ctx) error {
	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.documentService.Decline(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success decline document", nil))
}

func (c *documentController) Complete(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.documentService.Complete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success complete document", nil))
}

func (c *documentController) Expire(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.documentService.Expire(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success expire document", nil))
}

// currentUserId reads the authenticated user set by JwtMiddleware. The
// middleware guarantees a valid uuid on every route that reaches here.
func currentUserId(ctx *fiber.Ctx) uuid.UUID {
	userId, _ := ctx.Locals("user_id").(uuid.UUID)
	return userId
}
