package accounting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInvoice() *Invoice {
	issue := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	return &Invoice{
		Type:           InvoiceTypePayable,
		InvoiceNumber:  "PAYREQ-1",
		ContactID:      "contact-1",
		IssueDate:      issue,
		DueDate:        issue.AddDate(0, 0, 30),
		LineAmountType: LineAmountExclusive,
		Status:         InvoiceStatusSubmitted,
		LineItems: []LineItem{
			{
				Description: "Team lunch",
				Quantity:    decimal.NewFromInt(1),
				UnitAmount:  decimal.NewFromFloat(42.50),
				AccountCode: "600",
			},
		},
	}
}

func TestInvoice_Validate(t *testing.T) {
	t.Run("accepts a complete payable invoice", func(t *testing.T) {
		require.NoError(t, validInvoice().Validate())
	})

	t.Run("accepts a zero-amount line", func(t *testing.T) {
		inv := validInvoice()
		inv.LineItems[0].UnitAmount = decimal.Zero
		assert.NoError(t, inv.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*Invoice)
	}{
		{"missing type", func(i *Invoice) { i.Type = "" }},
		{"missing invoice number", func(i *Invoice) { i.InvoiceNumber = "" }},
		{"missing contact", func(i *Invoice) { i.ContactID = "" }},
		{"due date before issue date", func(i *Invoice) { i.DueDate = i.IssueDate.AddDate(0, 0, -1) }},
		{"no line items", func(i *Invoice) { i.LineItems = nil }},
		{"empty line description", func(i *Invoice) { i.LineItems[0].Description = "" }},
		{"negative line amount", func(i *Invoice) { i.LineItems[0].UnitAmount = decimal.NewFromInt(-1) }},
		{"missing account code", func(i *Invoice) { i.LineItems[0].AccountCode = "" }},
	}
	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			inv := validInvoice()
			tt.mutate(inv)
			assert.ErrorIs(t, inv.Validate(), ErrInvoiceInvalid)
		})
	}
}
