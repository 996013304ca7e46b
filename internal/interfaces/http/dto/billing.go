package dto

import (
	"time"

	"github.com/billsync/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------- Payment request DTOs ----------

// CreatePaymentRequestRequest is the payload for creating a payment request
type CreatePaymentRequestRequest struct {
	Bundle               string           `json:"bundle" binding:"required,oneof=reimbursement payment"`
	Label                string           `json:"label" binding:"required,max=200"`
	Description          string           `json:"description" binding:"omitempty,max=5000"`
	Amount               *decimal.Decimal `json:"amount"`
	PayeeID              *uuid.UUID       `json:"payee_id"`
	ReimburseAccountCode string           `json:"reimburse_account_code" binding:"omitempty,max=20"`
	PaymentAccountCode   string           `json:"payment_account_code" binding:"omitempty,max=20"`
	Hours                *decimal.Decimal `json:"hours"`
	HourlyRate           *decimal.Decimal `json:"hourly_rate"`
	Miles                *decimal.Decimal `json:"miles"`
}

// UpdatePaymentRequestRequest is the payload for a partial update. Nil fields
// are left untouched.
type UpdatePaymentRequestRequest struct {
	Label                *string          `json:"label" binding:"omitempty,max=200"`
	Description          *string          `json:"description" binding:"omitempty,max=5000"`
	Amount               *decimal.Decimal `json:"amount"`
	PayeeID              *uuid.UUID       `json:"payee_id"`
	ReimburseAccountCode *string          `json:"reimburse_account_code" binding:"omitempty,max=20"`
	PaymentAccountCode   *string          `json:"payment_account_code" binding:"omitempty,max=20"`
	Hours                *decimal.Decimal `json:"hours"`
	HourlyRate           *decimal.Decimal `json:"hourly_rate"`
	Miles                *decimal.Decimal `json:"miles"`
}

// ListPaymentRequestsRequest holds the list endpoint query parameters
type ListPaymentRequestsRequest struct {
	ListRequest
	Bundle  string `form:"bundle" binding:"omitempty,oneof=reimbursement payment"`
	Status  string `form:"status" binding:"omitempty,oneof=draft submitted paid"`
	OwnerID string `form:"owner_id" binding:"omitempty,uuid"`
}

// AttachmentResponse describes a stored file linked to a request
type AttachmentResponse struct {
	ID         uuid.UUID `json:"id"`
	StorageKey string    `json:"storage_key"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mime_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// PaymentRequestResponse is the API representation of a payment request
type PaymentRequestResponse struct {
	ID                   uuid.UUID            `json:"id"`
	Bundle               string               `json:"bundle"`
	Label                string               `json:"label"`
	Description          string               `json:"description,omitempty"`
	Status               string               `json:"status"`
	Amount               decimal.Decimal      `json:"amount"`
	OwnerID              uuid.UUID            `json:"owner_id"`
	PayeeID              *uuid.UUID           `json:"payee_id,omitempty"`
	ReimburseAccountCode string               `json:"reimburse_account_code,omitempty"`
	PaymentAccountCode   string               `json:"payment_account_code,omitempty"`
	InvoiceID            string               `json:"invoice_id,omitempty"`
	Hours                *decimal.Decimal     `json:"hours,omitempty"`
	HourlyRate           *decimal.Decimal     `json:"hourly_rate,omitempty"`
	Miles                *decimal.Decimal     `json:"miles,omitempty"`
	Attachments          []AttachmentResponse `json:"attachments"`
	SyncedAt             *time.Time           `json:"synced_at,omitempty"`
	PaidAt               *time.Time           `json:"paid_at,omitempty"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

// PaymentRequestFromDomain converts a domain payment request to its API shape
func PaymentRequestFromDomain(request *billing.PaymentRequest) PaymentRequestResponse {
	attachments := make([]AttachmentResponse, 0, len(request.Attachments))
	for _, a := range request.Attachments {
		attachments = append(attachments, AttachmentResponse{
			ID:         a.ID,
			StorageKey: a.StorageKey,
			Filename:   a.Filename,
			MimeType:   a.MimeType,
			UploadedAt: a.UploadedAt,
		})
	}

	return PaymentRequestResponse{
		ID:                   request.ID,
		Bundle:               request.Bundle.String(),
		Label:                request.Label,
		Description:          request.Description,
		Status:               request.Status.String(),
		Amount:               request.Amount,
		OwnerID:              request.OwnerID,
		PayeeID:              request.PayeeID,
		ReimburseAccountCode: request.ReimburseAccountCode,
		PaymentAccountCode:   request.PaymentAccountCode,
		InvoiceID:            request.InvoiceID,
		Hours:                request.Hours,
		HourlyRate:           request.HourlyRate,
		Miles:                request.Miles,
		Attachments:          attachments,
		SyncedAt:             request.SyncedAt,
		PaidAt:               request.PaidAt,
		CreatedAt:            request.CreatedAt,
		UpdatedAt:            request.UpdatedAt,
	}
}

// PaymentRequestsFromDomain converts a slice of domain requests
func PaymentRequestsFromDomain(requests []billing.PaymentRequest) []PaymentRequestResponse {
	out := make([]PaymentRequestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, PaymentRequestFromDomain(&requests[i]))
	}
	return out
}

// AddAttachmentRequest is the payload for linking a stored file to a request
type AddAttachmentRequest struct {
	StorageKey string `json:"storage_key" binding:"required,max=500"`
	Filename   string `json:"filename" binding:"required,max=255"`
	MimeType   string `json:"mime_type" binding:"omitempty,max=100"`
}

// ---------- Payee DTOs ----------

// CreatePayeeRequest is the payload for registering a payee
type CreatePayeeRequest struct {
	DisplayName string           `json:"display_name" binding:"required,max=200"`
	Email       string           `json:"email" binding:"required,email"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate"`
}

// UpdatePayeeRequest is the payload for a partial payee update
type UpdatePayeeRequest struct {
	DisplayName *string          `json:"display_name" binding:"omitempty,max=200"`
	Email       *string          `json:"email" binding:"omitempty,email"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate"`
	Active      *bool            `json:"active"`
}

// PayeeResponse is the API representation of a payee
type PayeeResponse struct {
	ID          uuid.UUID        `json:"id"`
	DisplayName string           `json:"display_name"`
	Email       string           `json:"email"`
	ContactID   string           `json:"contact_id,omitempty"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate,omitempty"`
	Active      bool             `json:"active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// PayeeFromDomain converts a domain payee to its API shape
func PayeeFromDomain(payee *billing.Payee) PayeeResponse {
	return PayeeResponse{
		ID:          payee.ID,
		DisplayName: payee.DisplayName,
		Email:       payee.Email,
		ContactID:   payee.ContactID,
		HourlyRate:  payee.HourlyRate,
		Active:      payee.Active,
		CreatedAt:   payee.CreatedAt,
		UpdatedAt:   payee.UpdatedAt,
	}
}

// PayeesFromDomain converts a slice of domain payees
func PayeesFromDomain(payees []billing.Payee) []PayeeResponse {
	out := make([]PayeeResponse, 0, len(payees))
	for i := range payees {
		out = append(out, PayeeFromDomain(&payees[i]))
	}
	return out
}
