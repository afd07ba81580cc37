package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"

	"stash/internal/domain/models"
	"stash/internal/events"
)

const testWebhookSecret = "whsec_test_secret_value"

func signedRequest(t *testing.T, secret string, payload []byte) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhooks/identity", bytes.NewReader(payload))
	if secret == "" {
		return req
	}

	wh, err := standardwebhooks.NewWebhookRaw([]byte(secret))
	if err != nil {
		t.Fatalf("create signer: %v", err)
	}

	now := time.Now()
	sig, err := wh.Sign("msg_test", now, payload)
	if err != nil {
		t.Fatalf("sign payload: %v", err)
	}

	req.Header.Set("webhook-id", "msg_test")
	req.Header.Set("webhook-timestamp", strconv.FormatInt(now.Unix(), 10))
	req.Header.Set("webhook-signature", sig)
	return req
}

func TestHandleIdentityEvent(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		secret     string
		sign       bool
		consumeErr error
		wantStatus int
		wantEvent  bool
	}{
		{
			name:       "valid user.created",
			payload:    `{"type": "user.created", "data": {"id": "user-123"}}`,
			secret:     testWebhookSecret,
			sign:       true,
			wantStatus: http.StatusAccepted,
			wantEvent:  true,
		},
		{
			name:       "unsigned request rejected",
			payload:    `{"type": "user.created", "data": {"id": "user-123"}}`,
			secret:     testWebhookSecret,
			sign:       false,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no secret configured skips verification",
			payload:    `{"type": "user.created", "data": {"id": "user-123"}}`,
			secret:     "",
			sign:       false,
			wantStatus: http.StatusAccepted,
			wantEvent:  true,
		},
		{
			name:       "consumer failure is not acknowledged",
			payload:    `{"type": "user.created", "data": {"id": "user-123"}}`,
			secret:     testWebhookSecret,
			sign:       true,
			consumeErr: errors.New("store unavailable"),
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "unknown event type acked without publishing",
			payload:    `{"type": "user.deleted", "data": {"id": "user-123"}}`,
			secret:     testWebhookSecret,
			sign:       true,
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "malformed payload",
			payload:    `{not json`,
			secret:     testWebhookSecret,
			sign:       true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "user.created without id",
			payload:    `{"type": "user.created", "data": {}}`,
			secret:     testWebhookSecret,
			sign:       true,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := events.NewBus()
			var delivered []models.UserCreatedEvent
			bus.Subscribe(func(ctx context.Context, evt models.UserCreatedEvent) error {
				if tt.consumeErr != nil {
					return tt.consumeErr
				}
				delivered = append(delivered, evt)
				return nil
			})

			h := NewWebhookHandler(bus, tt.secret, slog.New(slog.DiscardHandler))

			var req *http.Request
			if tt.sign {
				req = signedRequest(t, tt.secret, []byte(tt.payload))
			} else {
				req = signedRequest(t, "", []byte(tt.payload))
			}

			rec := httptest.NewRecorder()
			h.HandleIdentityEvent(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			if tt.wantEvent {
				if len(delivered) != 1 || delivered[0].UserID != "user-123" {
					t.Fatalf("delivered = %+v, want one event for user-123", delivered)
				}
			} else if len(delivered) != 0 {
				t.Fatalf("unexpected events delivered: %+v", delivered)
			}
		})
	}
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	payload := []byte(`{"type": "user.created", "data": {"id": "user-123"}}`)
	req := signedRequest(t, testWebhookSecret, payload)

	h := NewWebhookHandler(events.NewBus(), testWebhookSecret, slog.New(slog.DiscardHandler))

	tampered := []byte(`{"type": "user.created", "data": {"id": "user-666"}}`)
	if err := h.verifySignature(tampered, req.Header); err == nil {
		t.Fatal("verifySignature() accepted a tampered payload")
	}
	if err := h.verifySignature(payload, req.Header); err != nil {
		t.Fatalf("verifySignature() rejected a valid payload: %v", err)
	}
}
