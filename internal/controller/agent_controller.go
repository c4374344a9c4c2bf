package controller

import (
	"io"

	"rebuttal-agent-be/internal/dto"
	"rebuttal-agent-be/internal/pkg/serverutils"
	"rebuttal-agent-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAgentController interface {
	RegisterRoutes(r fiber.Router)
	Run(ctx *fiber.Ctx) error
	SessionHistory(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type agentController struct {
	agentService   service.IAgentService
	sessionService service.ISessionService
}

func NewAgentController(
	agentService service.IAgentService,
	sessionService service.ISessionService,
) IAgentController {
	return &agentController{
		agentService:   agentService,
		sessionService: sessionService,
	}
}

func (c *agentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/agent/v1")
	h.Post("/run", c.Run)
	h.Get("/session/:id/history", c.SessionHistory)
	h.Delete("/session/:id", c.DeleteSession)
}

// Run accepts a multipart form: thread_id, query, session_id and an
// optional `paper` PDF. The paper may be omitted when the session
// already has a checkpoint from an earlier upload.
func (c *agentController) Run(ctx *fiber.Ctx) error {
	req := dto.RunAgentRequest{
		ThreadId:  ctx.FormValue("thread_id"),
		Query:     ctx.FormValue("query"),
		SessionId: ctx.FormValue("session_id"),
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if fileHeader, err := ctx.FormFile("paper"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "failed to open uploaded paper")
		}
		defer file.Close()

		paper, err := io.ReadAll(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "failed to read uploaded paper")
		}
		req.Paper = paper
	}

	res, err := c.agentService.Run(ctx.Context(), &req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Success run agent", res))
}

func (c *agentController) SessionHistory(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("id")
	if sessionID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing session id")
	}

	res, err := c.sessionService.GetHistory(ctx.Context(), sessionID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session history", res))
}

func (c *agentController) DeleteSession(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("id")
	if sessionID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing session id")
	}

	if err := c.sessionService.DeleteSession(ctx.Context(), sessionID); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}
