package xero

import "github.com/shopspring/decimal"

// xeroContact is the wire representation of a provider contact
type xeroContact struct {
	ContactID    string `json:"ContactID,omitempty"`
	Name         string `json:"Name,omitempty"`
	EmailAddress string `json:"EmailAddress,omitempty"`
}

// xeroContactsResponse is the envelope returned by the Contacts endpoint
type xeroContactsResponse struct {
	Contacts []xeroContact `json:"Contacts"`
}

// xeroLineItem is the wire representation of an invoice line
type xeroLineItem struct {
	Description string          `json:"Description"`
	Quantity    decimal.Decimal `json:"Quantity"`
	UnitAmount  decimal.Decimal `json:"UnitAmount"`
	AccountCode string          `json:"AccountCode"`
}

// xeroInvoice is the wire representation of an invoice.
// Dates use the string form the provider accepts on write.
type xeroInvoice struct {
	InvoiceID       string         `json:"InvoiceID,omitempty"`
	Type            string         `json:"Type,omitempty"`
	InvoiceNumber   string         `json:"InvoiceNumber,omitempty"`
	Contact         *xeroContact   `json:"Contact,omitempty"`
	DateString      string         `json:"DateString,omitempty"`
	DueDateString   string         `json:"DueDateString,omitempty"`
	LineAmountTypes string         `json:"LineAmountTypes,omitempty"`
	Status          string         `json:"Status,omitempty"`
	LineItems       []xeroLineItem `json:"LineItems,omitempty"`
}

// xeroInvoicesRequest wraps invoices for create calls
type xeroInvoicesRequest struct {
	Invoices []xeroInvoice `json:"Invoices"`
}

// xeroInvoicesResponse is the envelope returned by the Invoices endpoint
type xeroInvoicesResponse struct {
	Invoices []xeroInvoice `json:"Invoices"`
}

// xeroErrorResponse is the envelope returned on validation failures
type xeroErrorResponse struct {
	Type    string `json:"Type"`
	Message string `json:"Message"`
}
