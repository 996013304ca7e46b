package accounting

import (
	"context"
	"errors"
)

// Contact lookup failures. Ambiguous matches are reported separately so
// callers can decide whether to treat them as not-found.
var (
	ErrContactNotFound  = errors.New("accounting contact not found")
	ErrContactAmbiguous = errors.New("multiple accounting contacts match")
)

// Gateway transport and provider failures
var (
	ErrGatewayNotConfigured   = errors.New("accounting gateway is not configured")
	ErrGatewayUnavailable     = errors.New("accounting gateway is unavailable")
	ErrGatewayAuthFailed      = errors.New("accounting gateway rejected credentials")
	ErrGatewayRateLimited     = errors.New("accounting gateway rate limit exceeded")
	ErrGatewayRequestFailed   = errors.New("accounting gateway request failed")
	ErrGatewayInvalidResponse = errors.New("accounting gateway returned an invalid response")
	ErrInvoiceCreateFailed    = errors.New("invoice creation failed")
	ErrAttachmentUploadFailed = errors.New("attachment upload failed")
)

// Gateway is the port to the external accounting provider. Implementations
// live in the infrastructure layer; the sync engine only sees this surface.
type Gateway interface {
	// IsConfigured reports whether the gateway has credentials to work with.
	// Operations on an unconfigured gateway return ErrGatewayNotConfigured.
	IsConfigured() bool

	// SearchContactByEmail looks up a contact by exact email match.
	// Returns ErrContactNotFound when nothing matches and
	// ErrContactAmbiguous when more than one contact does.
	SearchContactByEmail(ctx context.Context, email string) (*Contact, error)

	// CreateInvoice submits a payable invoice and returns the identifier
	// the provider assigned to it
	CreateInvoice(ctx context.Context, invoice *Invoice) (string, error)

	// QueryPaidInvoices reports the provider-side status of the given
	// invoice identifiers
	QueryPaidInvoices(ctx context.Context, invoiceIDs []string) ([]InvoiceStatusResult, error)

	// UploadAttachment attaches a file to an existing invoice
	UploadAttachment(ctx context.Context, invoiceID, filename string, data []byte, mimeType string) error
}
