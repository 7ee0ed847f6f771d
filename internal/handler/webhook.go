package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"stripe-integration-demo/internal/dto"
	"stripe-integration-demo/internal/service"
	"stripe-integration-demo/internal/webhook"
)

type WebhookHandler struct {
	reconciler    *service.Reconciler
	webhookSecret string
	logger        *slog.Logger
}

func NewWebhookHandler(reconciler *service.Reconciler, webhookSecret string, logger *slog.Logger) *WebhookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookHandler{
		reconciler:    reconciler,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// HandleStripeWebhook verifies the signature over the raw body, then hands
// the event to the reconciler. Once the payload is authentic the response
// is always 200 {"received":true}: returning an error would only make the
// provider retry deliveries this service cannot resolve by retrying.
func (h *WebhookHandler) HandleStripeWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.String(http.StatusBadRequest, "Webhook Error: unreadable body")
	}

	sigHeader := c.Request().Header.Get(webhook.SignatureHeader)
	ev, err := webhook.ConstructEvent(body, sigHeader, h.webhookSecret)
	if err != nil {
		h.logger.WarnContext(ctx, "webhook signature verification failed", "err", err)
		return c.String(http.StatusBadRequest, "Webhook Error: invalid signature")
	}

	res := h.reconciler.Handle(ctx, ev)
	switch res.Outcome {
	case service.OutcomeNoMatchingOrder:
		h.logger.WarnContext(ctx, "webhook event matched no order", "event_id", ev.ID, "type", ev.Type)
	case service.OutcomeStoreFailed:
		h.logger.ErrorContext(ctx, "webhook event apply failed", "event_id", ev.ID, "type", ev.Type, "err", res.Err)
	}

	return c.JSON(http.StatusOK, dto.WebhookResponse{Received: true})
}
