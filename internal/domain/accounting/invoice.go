// Package accounting holds the outbound model of the external accounting
// provider: the invoice payload the sync engine submits, the contact it
// resolves payees against, and the Gateway port the infrastructure layer
// implements. Nothing here is persisted locally.
package accounting

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvoiceInvalid is returned by Validate for payloads that the
// provider would reject outright
var ErrInvoiceInvalid = fmt.Errorf("invoice payload is invalid")

// InvoiceType distinguishes payable from receivable invoices
type InvoiceType string

// InvoiceTypePayable is a bill owed to a contact (accounts payable)
const InvoiceTypePayable InvoiceType = "ACCPAY"

// LineAmountType states how line amounts relate to tax
type LineAmountType string

// LineAmountExclusive marks line amounts as exclusive of tax
const LineAmountExclusive LineAmountType = "Exclusive"

// InvoiceStatus is the provider-side lifecycle status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusSubmitted InvoiceStatus = "SUBMITTED"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
)

// Contact is the provider's representation of a payee
type Contact struct {
	ContactID string
	Name      string
	Email     string
}

// LineItem is a single invoice line
type LineItem struct {
	Description string
	Quantity    decimal.Decimal
	UnitAmount  decimal.Decimal
	AccountCode string
}

// Invoice is the payload submitted to the provider. It is ephemeral:
// built for one sync attempt, never stored.
type Invoice struct {
	Type           InvoiceType
	InvoiceNumber  string
	ContactID      string
	IssueDate      time.Time
	DueDate        time.Time
	LineAmountType LineAmountType
	Status         InvoiceStatus
	LineItems      []LineItem
}

// InvoiceStatusResult pairs an invoice identifier with its provider-side
// status, as returned by status queries
type InvoiceStatusResult struct {
	InvoiceID string
	Status    InvoiceStatus
}

// Validate checks the payload for conditions the provider would reject.
// A zero amount is allowed so an incomplete request still surfaces as an
// invoice for human review.
func (i *Invoice) Validate() error {
	if i.Type == "" {
		return fmt.Errorf("%w: type is required", ErrInvoiceInvalid)
	}
	if i.InvoiceNumber == "" {
		return fmt.Errorf("%w: invoice number is required", ErrInvoiceInvalid)
	}
	if i.ContactID == "" {
		return fmt.Errorf("%w: contact ID is required", ErrInvoiceInvalid)
	}
	if i.DueDate.Before(i.IssueDate) {
		return fmt.Errorf("%w: due date precedes issue date", ErrInvoiceInvalid)
	}
	if len(i.LineItems) == 0 {
		return fmt.Errorf("%w: at least one line item is required", ErrInvoiceInvalid)
	}
	for _, line := range i.LineItems {
		if line.Description == "" {
			return fmt.Errorf("%w: line description is required", ErrInvoiceInvalid)
		}
		if line.UnitAmount.IsNegative() {
			return fmt.Errorf("%w: line amount must not be negative", ErrInvoiceInvalid)
		}
		if line.AccountCode == "" {
			return fmt.Errorf("%w: line account code is required", ErrInvoiceInvalid)
		}
	}
	return nil
}
