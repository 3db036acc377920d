package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GopinathBalasubramanian/eduactivity/internal/services"
	"github.com/GopinathBalasubramanian/eduactivity/internal/utils"
	"github.com/GopinathBalasubramanian/eduactivity/internal/validator"
)

type ChatHandler struct {
	BaseHandler
	service services.ChatService
}

func NewChatHandler(service services.ChatService, logger utils.Logger) *ChatHandler {
	return &ChatHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

func (h *ChatHandler) ListThreads(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	page, ok := h.parsePagination(c)
	if !ok {
		return
	}

	chats, total, err := h.service.ListThreads(c.Request.Context(), principal.UserID, page.Request())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respondPage(c, page, total, chats)
}

// Conversation returns the messages between the caller and ?with= about ?provider=
func (h *ChatHandler) Conversation(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var errs validator.ValidationErrors
	other, err := uuid.Parse(c.Query("with"))
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "with", Message: "Must be a valid user id.", Rule: "uuid"})
	}
	provider, err := uuid.Parse(c.Query("provider"))
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "provider", Message: "Must be a valid provider id.", Rule: "uuid"})
	}
	if len(errs) > 0 {
		h.handleServiceError(c, errs)
		return
	}

	chats, err := h.service.Conversation(c.Request.Context(), principal.UserID, other, provider)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, chats)
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req services.ChatRequest
	if !h.bindJSON(c, &req) {
		return
	}

	chat, err := h.service.Send(c.Request.Context(), principal, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, chat)
}

// MarkRead is allowed for the receiver only; anyone else gets 404
func (h *ChatHandler) MarkRead(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), principal.UserID, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Message marked as read."})
}
