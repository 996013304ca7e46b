package sync

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billsync/backend/internal/domain/accounting"
	"github.com/billsync/backend/internal/domain/billing"
)

// InvoiceNumberPrefix is prepended to the request identifier to form the
// human-readable invoice number on the provider side
const InvoiceNumberPrefix = "PAYREQ-"

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes markup from form-entered text before it is sent upstream
func stripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(htmlTagPattern.ReplaceAllString(s, "")))
}

// ResolveAccountCode picks the account code for a request, in precedence
// order: reimbursement override, payment override, bundle mapping, fixed
// fallback
func ResolveAccountCode(req *billing.PaymentRequest, cfg Config) string {
	if req.ReimburseAccountCode != "" {
		return req.ReimburseAccountCode
	}
	if req.PaymentAccountCode != "" {
		return req.PaymentAccountCode
	}
	return cfg.AccountCodeFor(req.Bundle)
}

// BuildInvoice assembles the payable invoice payload for a request. It is a
// pure function of its inputs plus the provided clock time. A missing amount
// becomes a zero-amount line rather than a build failure, so the invoice
// surfaces for human review instead of blocking the sync.
func BuildInvoice(req *billing.PaymentRequest, contactID, accountCode string, dueTermDays int, now time.Time) *accounting.Invoice {
	description := req.Label
	if description == "" {
		description = fmt.Sprintf("Payment Request #%s", req.ID)
	}
	if req.Description != "" {
		description = description + " - " + stripHTML(req.Description)
	}

	amount := req.Amount
	if amount.IsNegative() {
		amount = decimal.Zero
	}

	return &accounting.Invoice{
		Type:           accounting.InvoiceTypePayable,
		InvoiceNumber:  InvoiceNumberPrefix + req.ID.String(),
		ContactID:      contactID,
		IssueDate:      now,
		DueDate:        now.AddDate(0, 0, dueTermDays),
		LineAmountType: accounting.LineAmountExclusive,
		Status:         accounting.InvoiceStatusSubmitted,
		LineItems: []accounting.LineItem{
			{
				Description: description,
				Quantity:    decimal.NewFromInt(1),
				UnitAmount:  amount,
				AccountCode: accountCode,
			},
		},
	}
}
