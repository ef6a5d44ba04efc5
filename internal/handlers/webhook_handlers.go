package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"dormdesk/internal/chat"
	"dormdesk/internal/common"
	"dormdesk/internal/logger"
	"dormdesk/internal/models"
	"dormdesk/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	SignatureHeader = "X-Line-Signature"

	maxWebhookBody = 1 << 20
)

// ChatBinder binds a chat account to the resident holding a link code
type ChatBinder interface {
	BindChat(ctx context.Context, code, chatUserID string) (*models.Resident, error)
}

// WebhookHandlers receives chat platform callbacks
type WebhookHandlers struct {
	residents     ChatBinder
	notifications services.NotificationService
	channelSecret string
}

func NewWebhookHandlers(residents ChatBinder, notifications services.NotificationService, channelSecret string) *WebhookHandlers {
	return &WebhookHandlers{
		residents:     residents,
		notifications: notifications,
		channelSecret: channelSecret,
	}
}

func (h *WebhookHandlers) RegisterRoutes(g *echo.Group) {
	g.POST("/webhooks/chat", h.ChatWebhook)
}

// ChatWebhook handles POST /webhooks/chat. A verified delivery is always acknowledged
// with 200 so the platform does not retry it.
func (h *WebhookHandlers) ChatWebhook(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read request body")
	}
	if len(body) > maxWebhookBody {
		return common.ErrPayloadTooLarge
	}
	if !chat.VerifySignature(h.channelSecret, body, c.Request().Header.Get(SignatureHeader)) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid webhook signature")
	}

	ctx := c.Request().Context()
	log := logger.FromContext(ctx)
	for _, event := range chat.ParseEvents(body) {
		code, ok := event.LinkCode()
		if !ok {
			continue
		}
		resident, err := h.residents.BindChat(ctx, code, event.UserID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrConflict) {
				log.Info("chat link rejected", zap.String("chat_user_id", event.UserID), zap.Error(err))
			} else {
				log.Error("failed to bind chat account", zap.String("chat_user_id", event.UserID), zap.Error(err))
			}
			continue
		}
		if event.ReplyToken != "" {
			h.notifications.Reply(ctx, services.NotifyChatLinked, event.ReplyToken, services.MessageData{ResidentName: resident.FullName})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
