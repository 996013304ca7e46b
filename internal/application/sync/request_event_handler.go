package sync

import (
	"context"

	"go.uber.org/zap"

	"github.com/billsync/backend/internal/domain/billing"
	"github.com/billsync/backend/internal/domain/shared"
)

// RequestEventHandler reacts to payment request lifecycle events by running
// a sync attempt. It is the message-passing boundary between the form/API
// surface that mutates requests and the sync engine, which only exposes
// TrySync and does not care how it was triggered.
type RequestEventHandler struct {
	service  *Service
	requests billing.PaymentRequestRepository
	logger   *zap.Logger
}

// NewRequestEventHandler creates a new request event handler
func NewRequestEventHandler(service *Service, requests billing.PaymentRequestRepository, logger *zap.Logger) *RequestEventHandler {
	return &RequestEventHandler{
		service:  service,
		requests: requests,
		logger:   logger,
	}
}

var _ shared.EventHandler = (*RequestEventHandler)(nil)

// EventTypes returns the event types this handler subscribes to
func (h *RequestEventHandler) EventTypes() []string {
	return []string{"PaymentRequestSubmitted"}
}

// Handle loads the request behind the event and attempts a sync. Sync
// failures are swallowed here, the request stays eligible and the next
// trigger or backlog pass retries it.
func (h *RequestEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if event.AggregateType() != "PaymentRequest" {
		return nil
	}

	req, err := h.requests.FindByID(ctx, event.AggregateID())
	if err != nil {
		h.logger.Error("Failed to load request for sync trigger",
			zap.String("request_id", event.AggregateID().String()),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return nil
	}

	outcome, err := h.service.TrySync(ctx, req)
	if err != nil {
		h.logger.Error("Event-triggered sync failed",
			zap.String("request_id", req.ID.String()),
			zap.String("outcome", string(outcome)),
			zap.Error(err),
		)
		return nil
	}

	h.logger.Debug("Event-triggered sync finished",
		zap.String("request_id", req.ID.String()),
		zap.String("outcome", string(outcome)),
	)
	return nil
}
