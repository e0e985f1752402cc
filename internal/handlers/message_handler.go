package handlers

import (
	"errors"

	"commhub/internal/services"
	"commhub/internal/utils"
	ws "commhub/pkg/websocket"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService services.MessageService
	publisher      services.Publisher
}

func NewMessageHandler(messageService services.MessageService, publisher services.Publisher) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		publisher:      publisher,
	}
}

// SendMessage appends one chat message authored by the device identity.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var request services.SendMessageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	message, messages, err := h.messageService.Send(c.Request.Context(), &request)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			utils.BadRequestResponse(c, utils.ErrEmptyMessage)
		case errors.Is(err, services.ErrMessageTooLong):
			utils.BadRequestResponse(c, "Message text exceeds maximum length")
		default:
			utils.InternalServerErrorResponse(c)
		}
		return
	}

	if h.publisher != nil {
		h.publisher.Broadcast(ws.EventMessages, messages)
	}

	utils.CreatedResponse(c, "Message sent successfully", message)
}

// ListMessages returns the conversation oldest first.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	messages, err := h.messageService.List(c.Request.Context())
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Messages retrieved", messages, &utils.Meta{Count: len(messages)})
}
