package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"

	"stash/internal/domain/models"
	"stash/internal/events"
	"stash/internal/httputil"
)

// maxWebhookPayload caps how much of a webhook body is read.
const maxWebhookPayload = 256 * 1024

// WebhookHandler receives identity-provider webhooks and turns them into
// bus events. It sits outside the JWT-authenticated surface; the
// signature check is its authentication.
type WebhookHandler struct {
	bus    *events.Bus
	secret string
	logger *slog.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(bus *events.Bus, secret string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		bus:    bus,
		secret: secret,
		logger: logger,
	}
}

// HandleIdentityEvent ingests an identity-provider event. Consumers run
// synchronously before the response: a failure surfaces as a 5xx so the
// provider redelivers, and 2xx means the event was fully processed.
// POST /webhooks/identity
func (h *WebhookHandler) HandleIdentityEvent(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookPayload))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := h.verifySignature(payload, r.Header); err != nil {
		h.logger.Warn("webhook signature verification failed", "error", err)
		httputil.RespondError(w, http.StatusUnauthorized, "invalid webhook signature")
		return
	}

	var event struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "malformed webhook payload")
		return
	}

	h.logger.Info("identity webhook received", "event_type", event.Type)

	switch event.Type {
	case "user.created":
		var data struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Data, &data); err != nil || data.ID == "" {
			httputil.RespondError(w, http.StatusBadRequest, "malformed user.created payload")
			return
		}

		evt := models.UserCreatedEvent{
			UserID:    data.ID,
			CreatedAt: time.Now().UTC(),
		}
		if err := h.bus.Publish(r.Context(), evt); err != nil {
			h.logger.Error("user.created event processing failed",
				"user_id", data.ID,
				"error", err,
			)
			httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
	default:
		// ack so the provider stops retrying event types we don't consume
		h.logger.Warn("ignoring unknown webhook event type", "event_type", event.Type)
	}

	httputil.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (h *WebhookHandler) verifySignature(payload []byte, headers http.Header) error {
	if h.secret == "" {
		h.logger.Warn("no webhook secret configured, skipping signature verification")
		return nil
	}

	wh, err := standardwebhooks.NewWebhookRaw([]byte(h.secret))
	if err != nil {
		return fmt.Errorf("create webhook verifier: %w", err)
	}

	if err := wh.Verify(payload, headers); err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}
	return nil
}
