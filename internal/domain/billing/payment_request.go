package billing

import (
	"fmt"
	"time"

	"github.com/billsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestBundle represents the category of a payment request
// The bundle determines the default expense account code used upstream
type RequestBundle string

const (
	BundleReimbursement RequestBundle = "reimbursement" // Expense reimbursement for a member
	BundlePayment       RequestBundle = "payment"       // Contractor or vendor payment
)

// IsValid checks if the bundle is a recognized RequestBundle
func (b RequestBundle) IsValid() bool {
	switch b {
	case BundleReimbursement, BundlePayment:
		return true
	}
	return false
}

// String returns the string representation of RequestBundle
func (b RequestBundle) String() string {
	return string(b)
}

// RequestStatus represents the lifecycle status of a payment request
type RequestStatus string

const (
	StatusDraft     RequestStatus = "draft"     // Being edited, never synced
	StatusSubmitted RequestStatus = "submitted" // Approved for payment, eligible for sync
	StatusPaid      RequestStatus = "paid"      // Payment confirmed by reconciliation
)

// IsValid checks if the status is a valid RequestStatus
func (s RequestStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusPaid:
		return true
	}
	return false
}

// String returns the string representation of RequestStatus
func (s RequestStatus) String() string {
	return string(s)
}

// MileageRate is the per-mile reimbursement rate applied to mileage requests
var MileageRate = decimal.NewFromFloat(0.67)

// MileageAccountCode is the expense account mileage reimbursements post to
const MileageAccountCode = "6048"

// Attachment is a stored file linked to a payment request (receipt, invoice copy)
type Attachment struct {
	ID         uuid.UUID `json:"id"`
	RequestID  uuid.UUID `json:"request_id"`
	StorageKey string    `json:"storage_key"` // Key in the attachment store
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mime_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// NewAttachment creates a new attachment reference
func NewAttachment(requestID uuid.UUID, storageKey, filename, mimeType string) (*Attachment, error) {
	if storageKey == "" {
		return nil, shared.NewDomainError("INVALID_STORAGE_KEY", "Attachment storage key cannot be empty")
	}
	if filename == "" {
		return nil, shared.NewDomainError("INVALID_FILENAME", "Attachment filename cannot be empty")
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return &Attachment{
		ID:         uuid.New(),
		RequestID:  requestID,
		StorageKey: storageKey,
		Filename:   filename,
		MimeType:   mimeType,
		UploadedAt: time.Now(),
	}, nil
}

// PaymentRequest represents a payment request aggregate root
// It is the internal record for a reimbursement or contractor payment that
// gets pushed to the accounting provider as a payable invoice
type PaymentRequest struct {
	shared.BaseAggregateRoot
	Bundle               RequestBundle    `json:"bundle"`
	Label                string           `json:"label"`       // Human-readable title
	Description          string           `json:"description"` // Free text, may contain HTML from the form layer
	Status               RequestStatus    `json:"status"`
	Amount               decimal.Decimal  `json:"amount"`
	OwnerID              uuid.UUID        `json:"owner_id"`           // User who created the request
	PayeeID              *uuid.UUID       `json:"payee_id,omitempty"` // Explicit payee, overrides owner when set
	ReimburseAccountCode string           `json:"reimburse_account_code,omitempty"`
	PaymentAccountCode   string           `json:"payment_account_code,omitempty"`
	InvoiceID            string           `json:"invoice_id,omitempty"` // External invoice identifier, set once
	Attachments          []Attachment     `json:"attachments"`
	Hours                *decimal.Decimal `json:"hours,omitempty"`       // Worked hours for hourly payments
	HourlyRate           *decimal.Decimal `json:"hourly_rate,omitempty"` // Rate applied to hours
	Miles                *decimal.Decimal `json:"miles,omitempty"`       // Miles driven for mileage reimbursements
	SyncedAt             *time.Time       `json:"synced_at,omitempty"`
	PaidAt               *time.Time       `json:"paid_at,omitempty"`
}

// NewPaymentRequest creates a new payment request in draft status
func NewPaymentRequest(bundle RequestBundle, label string, amount decimal.Decimal, ownerID uuid.UUID) (*PaymentRequest, error) {
	if !bundle.IsValid() {
		return nil, shared.NewDomainError("INVALID_BUNDLE", "Bundle is not valid")
	}
	if len(label) > 255 {
		return nil, shared.NewDomainError("INVALID_LABEL", "Label cannot exceed 255 characters")
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}

	pr := &PaymentRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Bundle:            bundle,
		Label:             label,
		Status:            StatusDraft,
		Amount:            amount,
		OwnerID:           ownerID,
		Attachments:       make([]Attachment, 0),
	}

	pr.AddDomainEvent(NewPaymentRequestCreatedEvent(pr))

	return pr, nil
}

// ResolvedPayeeID returns the explicit payee when present, else the owner
func (pr *PaymentRequest) ResolvedPayeeID() uuid.UUID {
	if pr.PayeeID != nil && *pr.PayeeID != uuid.Nil {
		return *pr.PayeeID
	}
	return pr.OwnerID
}

// IsSynced returns true if an external invoice identifier has been recorded
func (pr *PaymentRequest) IsSynced() bool {
	return pr.InvoiceID != ""
}

// IsEligibleForSync returns true if the request may be pushed upstream
func (pr *PaymentRequest) IsEligibleForSync() bool {
	return pr.Status == StatusSubmitted && !pr.IsSynced()
}

// Submit moves the request from draft to submitted
func (pr *PaymentRequest) Submit() error {
	if pr.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit request in %s status", pr.Status))
	}

	pr.Status = StatusSubmitted
	pr.UpdatedAt = time.Now()
	pr.IncrementVersion()

	pr.AddDomainEvent(NewPaymentRequestSubmittedEvent(pr))

	return nil
}

// MarkSynced records the external invoice identifier after a successful push
// The identifier can be set at most once for the lifetime of the request
func (pr *PaymentRequest) MarkSynced(invoiceID string) error {
	if invoiceID == "" {
		return shared.NewDomainError("INVALID_INVOICE_ID", "Invoice ID cannot be empty")
	}
	if pr.IsSynced() {
		return shared.NewDomainError("ALREADY_SYNCED", fmt.Sprintf("Request already carries invoice %s", pr.InvoiceID))
	}
	if pr.Status != StatusSubmitted {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record invoice for request in %s status", pr.Status))
	}

	now := time.Now()
	pr.InvoiceID = invoiceID
	pr.SyncedAt = &now
	pr.UpdatedAt = now
	pr.IncrementVersion()

	pr.AddDomainEvent(NewPaymentRequestSyncedEvent(pr))

	return nil
}

// MarkPaid records that the external invoice has been paid
// Status only ever moves forward, marking an already paid request is a no-op
func (pr *PaymentRequest) MarkPaid() error {
	if pr.Status == StatusPaid {
		return nil
	}
	if !pr.IsSynced() {
		return shared.NewDomainError("NOT_SYNCED", "Cannot mark unsynced request as paid")
	}

	now := time.Now()
	pr.Status = StatusPaid
	pr.PaidAt = &now
	pr.UpdatedAt = now
	pr.IncrementVersion()

	pr.AddDomainEvent(NewPaymentRequestPaidEvent(pr))

	return nil
}

// SetPayee sets or clears the explicit payee override
func (pr *PaymentRequest) SetPayee(payeeID *uuid.UUID) error {
	if pr.IsSynced() {
		return shared.NewDomainError("ALREADY_SYNCED", "Cannot modify a synced request")
	}

	pr.PayeeID = payeeID
	pr.UpdatedAt = time.Now()
	pr.IncrementVersion()

	return nil
}

// SetDescription sets the free-text description
func (pr *PaymentRequest) SetDescription(description string) error {
	if pr.IsSynced() {
		return shared.NewDomainError("ALREADY_SYNCED", "Cannot modify a synced request")
	}

	pr.Description = description
	pr.UpdatedAt = time.Now()
	pr.IncrementVersion()

	return nil
}

// SetAccountCodeOverrides sets the per-request account code overrides
// Reimburse takes precedence over payment when both are populated
func (pr *PaymentRequest) SetAccountCodeOverrides(reimburseCode, paymentCode string) error {
	if pr.IsSynced() {
		return shared.NewDomainError("ALREADY_SYNCED", "Cannot modify a synced request")
	}

	pr.ReimburseAccountCode = reimburseCode
	pr.PaymentAccountCode = paymentCode
	pr.UpdatedAt = time.Now()
	pr.IncrementVersion()

	return nil
}

// SetAmount sets the request amount directly
func (pr *PaymentRequest) SetAmount(amount decimal.Decimal) error {
	if pr.IsSynced() {
		return shared.NewDomainError("ALREADY_SYNCED", "Cannot modify a synced request")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}

	pr.Amount = amount
	pr.UpdatedAt = time.Now()
	pr.IncrementVersion()

	return nil
}

// ApplyHourlyCalculation derives the amount from worked hours and a rate
func (pr *PaymentRequest) ApplyHourlyCalculation(hours, rate decimal.Decimal) error {
	if pr.IsSynced() {
		return shared.NewDomainError("ALREADY_SYNCED", "Cannot modify a synced request")
	}
	if hours.IsNegative() {
		return shared.NewDomainError("INVALID_HOURS", "Hours cannot be negative")
	}
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Hourly rate cannot be negative")
	}

	pr.Hours = &hours
	pr.HourlyRate = &rate
	pr.Amount = hours.Mul(rate).Round(2)
	pr.UpdatedAt = time.Now()
	pr.IncrementVersion()

	return nil
}

// ApplyMileageCalculation derives the amount from miles driven at the fixed
// mileage rate and pins the reimbursement to the mileage expense account
func (pr *PaymentRequest) ApplyMileageCalculation(miles decimal.Decimal) error {
	if pr.IsSynced() {
		return shared.NewDomainError("ALREADY_SYNCED", "Cannot modify a synced request")
	}
	if miles.IsNegative() {
		return shared.NewDomainError("INVALID_MILES", "Miles cannot be negative")
	}

	pr.Miles = &miles
	pr.Amount = miles.Mul(MileageRate).Round(2)
	pr.ReimburseAccountCode = MileageAccountCode
	pr.UpdatedAt = time.Now()
	pr.IncrementVersion()

	return nil
}

// AddAttachment links a stored file to the request
func (pr *PaymentRequest) AddAttachment(storageKey, filename, mimeType string) (*Attachment, error) {
	if pr.IsSynced() {
		return nil, shared.NewDomainError("ALREADY_SYNCED", "Cannot modify a synced request")
	}

	att, err := NewAttachment(pr.ID, storageKey, filename, mimeType)
	if err != nil {
		return nil, err
	}

	pr.Attachments = append(pr.Attachments, *att)
	pr.UpdatedAt = time.Now()
	pr.IncrementVersion()

	return att, nil
}

// AttachmentCount returns the number of linked files
func (pr *PaymentRequest) AttachmentCount() int {
	return len(pr.Attachments)
}

// IsDraft returns true if the request is in draft status
func (pr *PaymentRequest) IsDraft() bool {
	return pr.Status == StatusDraft
}

// IsSubmitted returns true if the request is in submitted status
func (pr *PaymentRequest) IsSubmitted() bool {
	return pr.Status == StatusSubmitted
}

// IsPaid returns true if the request is in paid status
func (pr *PaymentRequest) IsPaid() bool {
	return pr.Status == StatusPaid
}
