package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRequestFilter defines filtering options for payment request queries
type PaymentRequestFilter struct {
	Bundle   *RequestBundle // Filter by bundle
	Status   *RequestStatus // Filter by status
	OwnerID  *uuid.UUID     // Filter by owning user
	FromDate *time.Time     // Filter by creation date range start
	ToDate   *time.Time     // Filter by creation date range end
	Limit    int            // Maximum rows to return, 0 means no limit
	Offset   int            // Rows to skip
}

// PaymentRequestRepository defines the interface for payment request persistence
type PaymentRequestRepository interface {
	// FindByID finds a payment request by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentRequest, error)

	// FindAll finds payment requests matching the filter
	FindAll(ctx context.Context, filter PaymentRequestFilter) ([]PaymentRequest, error)

	// FindPendingSync finds up to limit submitted requests with no invoice
	// identifier, oldest first
	FindPendingSync(ctx context.Context, limit int) ([]PaymentRequest, error)

	// FindSyncedUnpaid finds requests that carry an invoice identifier but
	// are not yet marked paid
	FindSyncedUnpaid(ctx context.Context) ([]PaymentRequest, error)

	// CountEquivalent counts requests other than excludeID with the same
	// bundle and amount whose payee or owner matches payeeID, created at or
	// after since
	CountEquivalent(ctx context.Context, excludeID uuid.UUID, bundle RequestBundle, amount decimal.Decimal, payeeID uuid.UUID, since time.Time) (int64, error)

	// SetInvoiceID writes the invoice identifier only if none is stored yet.
	// It returns false when another writer already recorded an identifier.
	SetInvoiceID(ctx context.Context, id uuid.UUID, invoiceID string) (bool, error)

	// Save creates or updates a payment request
	Save(ctx context.Context, request *PaymentRequest) error
}

// PayeeRepository defines the interface for payee persistence
type PayeeRepository interface {
	// FindByID finds a payee by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payee, error)

	// FindByEmail finds a payee by email address
	FindByEmail(ctx context.Context, email string) (*Payee, error)

	// FindAll finds all payees
	FindAll(ctx context.Context) ([]Payee, error)

	// SetContactID writes the cached external contact identifier for a payee
	SetContactID(ctx context.Context, id uuid.UUID, contactID string) error

	// Save creates or updates a payee
	Save(ctx context.Context, payee *Payee) error
}
