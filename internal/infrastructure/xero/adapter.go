package xero

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/billsync/backend/internal/domain/accounting"
	"github.com/billsync/backend/internal/infrastructure/config"
)

// maxResponseSize is the maximum allowed response size from the provider API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// maxIDsPerQuery is the provider's cap on invoice identifiers per status query
const maxIDsPerQuery = 40

// dateLayout is the date-only format the provider accepts on write
const dateLayout = "2006-01-02"

// Adapter implements the accounting.Gateway port against the Xero
// accounting API
type Adapter struct {
	config     *config.XeroConfig
	httpClient *http.Client
}

var _ accounting.Gateway = (*Adapter)(nil)

// NewAdapter creates a new Xero adapter with the given configuration
func NewAdapter(cfg *config.XeroConfig) *Adapter {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Adapter{
		config: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// IsConfigured returns true if the gateway has working credentials
func (a *Adapter) IsConfigured() bool {
	return a.config.IsConfigured()
}

// SearchContactByEmail looks up a contact by exact email match
func (a *Adapter) SearchContactByEmail(ctx context.Context, email string) (*accounting.Contact, error) {
	if !a.IsConfigured() {
		return nil, accounting.ErrGatewayNotConfigured
	}

	query := url.Values{}
	query.Set("where", fmt.Sprintf(`EmailAddress=="%s"`, strings.ReplaceAll(email, `"`, "")))

	body, err := a.doRequest(ctx, http.MethodGet, "/Contacts?"+query.Encode(), nil, "")
	if err != nil {
		return nil, err
	}

	var resp xeroContactsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", accounting.ErrGatewayInvalidResponse, err)
	}

	switch len(resp.Contacts) {
	case 0:
		return nil, accounting.ErrContactNotFound
	case 1:
		c := resp.Contacts[0]
		return &accounting.Contact{
			ContactID: c.ContactID,
			Name:      c.Name,
			Email:     c.EmailAddress,
		}, nil
	default:
		return nil, accounting.ErrContactAmbiguous
	}
}

// CreateInvoice submits a payable invoice and returns the identifier
// assigned by the provider
func (a *Adapter) CreateInvoice(ctx context.Context, invoice *accounting.Invoice) (string, error) {
	if !a.IsConfigured() {
		return "", accounting.ErrGatewayNotConfigured
	}
	if err := invoice.Validate(); err != nil {
		return "", err
	}

	payload := xeroInvoicesRequest{
		Invoices: []xeroInvoice{toWireInvoice(invoice)},
	}
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("xero: failed to encode invoice: %w", err)
	}

	body, err := a.doRequest(ctx, http.MethodPost, "/Invoices", bytes.NewReader(reqBody), "application/json")
	if err != nil {
		return "", fmt.Errorf("%w: %v", accounting.ErrInvoiceCreateFailed, err)
	}

	var resp xeroInvoicesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", accounting.ErrGatewayInvalidResponse, err)
	}
	if len(resp.Invoices) == 0 || resp.Invoices[0].InvoiceID == "" {
		return "", fmt.Errorf("%w: response carries no invoice identifier", accounting.ErrGatewayInvalidResponse)
	}
	return resp.Invoices[0].InvoiceID, nil
}

// QueryPaidInvoices returns the current status of the given invoice
// identifiers. At most maxIDsPerQuery identifiers fit in one call.
func (a *Adapter) QueryPaidInvoices(ctx context.Context, invoiceIDs []string) ([]accounting.InvoiceStatusResult, error) {
	if !a.IsConfigured() {
		return nil, accounting.ErrGatewayNotConfigured
	}
	if len(invoiceIDs) == 0 {
		return nil, nil
	}
	if len(invoiceIDs) > maxIDsPerQuery {
		return nil, fmt.Errorf("%w: at most %d invoice IDs per query", accounting.ErrGatewayRequestFailed, maxIDsPerQuery)
	}

	query := url.Values{}
	query.Set("IDs", strings.Join(invoiceIDs, ","))
	query.Set("Statuses", "PAID")

	body, err := a.doRequest(ctx, http.MethodGet, "/Invoices?"+query.Encode(), nil, "")
	if err != nil {
		return nil, err
	}

	var resp xeroInvoicesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", accounting.ErrGatewayInvalidResponse, err)
	}

	results := make([]accounting.InvoiceStatusResult, 0, len(resp.Invoices))
	for _, inv := range resp.Invoices {
		if inv.InvoiceID == "" {
			continue
		}
		results = append(results, accounting.InvoiceStatusResult{
			InvoiceID: inv.InvoiceID,
			Status:    accounting.InvoiceStatus(inv.Status),
		})
	}
	return results, nil
}

// UploadAttachment attaches a file to an existing invoice. The filename is
// escaped into the URL path, so names with spaces or non-ASCII characters
// are safe to pass through.
func (a *Adapter) UploadAttachment(ctx context.Context, invoiceID, filename string, data []byte, mimeType string) error {
	if !a.IsConfigured() {
		return accounting.ErrGatewayNotConfigured
	}
	if invoiceID == "" || filename == "" {
		return fmt.Errorf("%w: invoice ID and filename are required", accounting.ErrAttachmentUploadFailed)
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	path := fmt.Sprintf("/Invoices/%s/Attachments/%s", url.PathEscape(invoiceID), url.PathEscape(filename))
	if _, err := a.doRequest(ctx, http.MethodPost, path, bytes.NewReader(data), mimeType); err != nil {
		return fmt.Errorf("%w: %v", accounting.ErrAttachmentUploadFailed, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// doRequest performs an authenticated HTTP request against the provider API
func (a *Adapter) doRequest(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.config.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("xero: failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+a.config.AccessToken)
	req.Header.Set("Xero-Tenant-Id", a.config.TenantID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", accounting.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("xero: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: HTTP %d", accounting.ErrGatewayAuthFailed, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, accounting.ErrGatewayRateLimited
	case resp.StatusCode >= 400:
		var apiErr xeroErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("%w: HTTP %d: %s", accounting.ErrGatewayRequestFailed, resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", accounting.ErrGatewayRequestFailed, resp.StatusCode)
	}

	return respBody, nil
}

// toWireInvoice converts a domain invoice into the provider's wire format
func toWireInvoice(invoice *accounting.Invoice) xeroInvoice {
	wire := xeroInvoice{
		Type:            string(invoice.Type),
		InvoiceNumber:   invoice.InvoiceNumber,
		Contact:         &xeroContact{ContactID: invoice.ContactID},
		DateString:      invoice.IssueDate.Format(dateLayout),
		DueDateString:   invoice.DueDate.Format(dateLayout),
		LineAmountTypes: string(invoice.LineAmountType),
		Status:          string(invoice.Status),
		LineItems:       make([]xeroLineItem, len(invoice.LineItems)),
	}
	for i, line := range invoice.LineItems {
		wire.LineItems[i] = xeroLineItem{
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitAmount:  line.UnitAmount,
			AccountCode: line.AccountCode,
		}
	}
	return wire
}
