package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/opsdesk/ticket-admin/internal/api/dto"
	"github.com/opsdesk/ticket-admin/internal/chat"
	"github.com/opsdesk/ticket-admin/internal/events"
	apperrors "github.com/opsdesk/ticket-admin/pkg/util/errorutil"
)

// streamTimeout bounds a streamed reply, which runs after the handler returns.
const streamTimeout = 2 * time.Minute

// ChatHandler answers the console chat pane.
type ChatHandler struct {
	assistant chat.Assistant
	logger    *zap.Logger
}

// NewChatHandler constructs handler.
func NewChatHandler(assistant chat.Assistant, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{assistant: assistant, logger: logger}
}

// Send POST /api/chat. Clients asking for text/event-stream receive the
// reply as chunk events followed by a done event carrying the full reply.
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.Messages) == 0 {
		return apperrors.NewValidationError(chat.ErrEmptyHistory.Error(), nil)
	}
	ctx := events.WithSource(c.UserContext(), events.SourceChat)

	if !strings.Contains(c.Get(fiber.HeaderAccept), "text/event-stream") {
		reply, err := h.assistant.SendMessage(ctx, req.Messages, nil)
		if err != nil {
			return h.mapError(err)
		}
		return c.JSON(fiber.Map{"data": reply})
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	history := req.Messages
	detached := context.WithoutCancel(ctx)
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		streamCtx, cancel := context.WithTimeout(detached, streamTimeout)
		defer cancel()
		reply, err := h.assistant.SendMessage(streamCtx, history, func(chunk string) {
			writeEvent(w, "chunk", fiber.Map{"text": chunk})
		})
		if err != nil {
			h.logger.Warn("chat stream failed", zap.Error(err))
			derr := apperrors.ToDomainError(h.mapError(err))
			writeEvent(w, "error", fiber.Map{"code": derr.Code, "message": derr.Message})
			return
		}
		writeEvent(w, "done", reply)
	}))
	return nil
}

func (h *ChatHandler) mapError(err error) error {
	switch {
	case errors.Is(err, chat.ErrEmptyHistory):
		return apperrors.NewValidationError(err.Error(), nil)
	case errors.Is(err, chat.ErrToolLoop):
		return apperrors.NewDomainError("ASSISTANT_UNAVAILABLE", err.Error(), fiber.StatusBadGateway, nil)
	}
	return err
}

func writeEvent(w *bufio.Writer, name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	_ = w.Flush()
}
