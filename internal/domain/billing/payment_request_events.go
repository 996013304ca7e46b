package billing

import (
	"time"

	"github.com/billsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRequestCreatedEvent is raised when a new payment request is created
type PaymentRequestCreatedEvent struct {
	shared.BaseDomainEvent
	RequestID uuid.UUID       `json:"request_id"`
	Bundle    RequestBundle   `json:"bundle"`
	Label     string          `json:"label"`
	Amount    decimal.Decimal `json:"amount"`
	OwnerID   uuid.UUID       `json:"owner_id"`
}

// EventType returns the event type name
func (e *PaymentRequestCreatedEvent) EventType() string {
	return "PaymentRequestCreated"
}

// NewPaymentRequestCreatedEvent creates a new PaymentRequestCreatedEvent
func NewPaymentRequestCreatedEvent(pr *PaymentRequest) *PaymentRequestCreatedEvent {
	return &PaymentRequestCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentRequestCreated", "PaymentRequest", pr.ID),
		RequestID:       pr.ID,
		Bundle:          pr.Bundle,
		Label:           pr.Label,
		Amount:          pr.Amount,
		OwnerID:         pr.OwnerID,
	}
}

// PaymentRequestSubmittedEvent is raised when a request becomes eligible for sync
type PaymentRequestSubmittedEvent struct {
	shared.BaseDomainEvent
	RequestID uuid.UUID       `json:"request_id"`
	Bundle    RequestBundle   `json:"bundle"`
	Amount    decimal.Decimal `json:"amount"`
	PayeeID   uuid.UUID       `json:"payee_id"` // Resolved payee (explicit payee or owner)
}

// EventType returns the event type name
func (e *PaymentRequestSubmittedEvent) EventType() string {
	return "PaymentRequestSubmitted"
}

// NewPaymentRequestSubmittedEvent creates a new PaymentRequestSubmittedEvent
func NewPaymentRequestSubmittedEvent(pr *PaymentRequest) *PaymentRequestSubmittedEvent {
	return &PaymentRequestSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentRequestSubmitted", "PaymentRequest", pr.ID),
		RequestID:       pr.ID,
		Bundle:          pr.Bundle,
		Amount:          pr.Amount,
		PayeeID:         pr.ResolvedPayeeID(),
	}
}

// PaymentRequestSyncedEvent is raised when the external invoice identifier is recorded
type PaymentRequestSyncedEvent struct {
	shared.BaseDomainEvent
	RequestID uuid.UUID       `json:"request_id"`
	InvoiceID string          `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	SyncedAt  time.Time       `json:"synced_at"`
}

// EventType returns the event type name
func (e *PaymentRequestSyncedEvent) EventType() string {
	return "PaymentRequestSynced"
}

// NewPaymentRequestSyncedEvent creates a new PaymentRequestSyncedEvent
func NewPaymentRequestSyncedEvent(pr *PaymentRequest) *PaymentRequestSyncedEvent {
	syncedAt := time.Now()
	if pr.SyncedAt != nil {
		syncedAt = *pr.SyncedAt
	}
	return &PaymentRequestSyncedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentRequestSynced", "PaymentRequest", pr.ID),
		RequestID:       pr.ID,
		InvoiceID:       pr.InvoiceID,
		Amount:          pr.Amount,
		SyncedAt:        syncedAt,
	}
}

// PaymentRequestPaidEvent is raised when reconciliation confirms payment
type PaymentRequestPaidEvent struct {
	shared.BaseDomainEvent
	RequestID uuid.UUID       `json:"request_id"`
	InvoiceID string          `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    time.Time       `json:"paid_at"`
}

// EventType returns the event type name
func (e *PaymentRequestPaidEvent) EventType() string {
	return "PaymentRequestPaid"
}

// NewPaymentRequestPaidEvent creates a new PaymentRequestPaidEvent
func NewPaymentRequestPaidEvent(pr *PaymentRequest) *PaymentRequestPaidEvent {
	paidAt := time.Now()
	if pr.PaidAt != nil {
		paidAt = *pr.PaidAt
	}
	return &PaymentRequestPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentRequestPaid", "PaymentRequest", pr.ID),
		RequestID:       pr.ID,
		InvoiceID:       pr.InvoiceID,
		Amount:          pr.Amount,
		PaidAt:          paidAt,
	}
}
