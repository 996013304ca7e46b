package models

import (
	"time"

	"github.com/billsync/backend/internal/domain/billing"
	"github.com/billsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRequestModel is the persistence model for the PaymentRequest aggregate root.
type PaymentRequestModel struct {
	AggregateModel
	Bundle               billing.RequestBundle `gorm:"type:varchar(30);not null;index"`
	Label                string                `gorm:"type:varchar(200);not null"`
	Description          string                `gorm:"type:text"`
	Status               billing.RequestStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Amount               decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	OwnerID              uuid.UUID             `gorm:"type:uuid;not null;index"`
	PayeeID              *uuid.UUID            `gorm:"type:uuid;index"`
	ReimburseAccountCode string                `gorm:"type:varchar(20)"`
	PaymentAccountCode   string                `gorm:"type:varchar(20)"`
	InvoiceID            string                `gorm:"type:varchar(100);not null;default:'';index"`
	Hours                *decimal.Decimal      `gorm:"type:decimal(18,4)"`
	HourlyRate           *decimal.Decimal      `gorm:"type:decimal(18,4)"`
	Miles                *decimal.Decimal      `gorm:"type:decimal(18,4)"`
	SyncedAt             *time.Time
	PaidAt               *time.Time
	Attachments          []AttachmentModel `gorm:"foreignKey:RequestID;references:ID"`
}

// TableName returns the table name for GORM
func (PaymentRequestModel) TableName() string {
	return "payment_requests"
}

// ToDomain converts the persistence model to a domain PaymentRequest entity.
func (m *PaymentRequestModel) ToDomain() *billing.PaymentRequest {
	pr := &billing.PaymentRequest{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Bundle:               m.Bundle,
		Label:                m.Label,
		Description:          m.Description,
		Status:               m.Status,
		Amount:               m.Amount,
		OwnerID:              m.OwnerID,
		PayeeID:              m.PayeeID,
		ReimburseAccountCode: m.ReimburseAccountCode,
		PaymentAccountCode:   m.PaymentAccountCode,
		InvoiceID:            m.InvoiceID,
		Hours:                m.Hours,
		HourlyRate:           m.HourlyRate,
		Miles:                m.Miles,
		SyncedAt:             m.SyncedAt,
		PaidAt:               m.PaidAt,
		Attachments:          make([]billing.Attachment, len(m.Attachments)),
	}
	for i, att := range m.Attachments {
		pr.Attachments[i] = *att.ToDomain()
	}
	return pr
}

// FromDomain populates the persistence model from a domain PaymentRequest entity.
func (m *PaymentRequestModel) FromDomain(pr *billing.PaymentRequest) {
	m.FromDomainAggregateRoot(pr.BaseAggregateRoot)
	m.Bundle = pr.Bundle
	m.Label = pr.Label
	m.Description = pr.Description
	m.Status = pr.Status
	m.Amount = pr.Amount
	m.OwnerID = pr.OwnerID
	m.PayeeID = pr.PayeeID
	m.ReimburseAccountCode = pr.ReimburseAccountCode
	m.PaymentAccountCode = pr.PaymentAccountCode
	m.InvoiceID = pr.InvoiceID
	m.Hours = pr.Hours
	m.HourlyRate = pr.HourlyRate
	m.Miles = pr.Miles
	m.SyncedAt = pr.SyncedAt
	m.PaidAt = pr.PaidAt
	m.Attachments = make([]AttachmentModel, len(pr.Attachments))
	for i, att := range pr.Attachments {
		m.Attachments[i] = *AttachmentModelFromDomain(&att)
	}
}

// PaymentRequestModelFromDomain creates a new persistence model from a domain PaymentRequest.
func PaymentRequestModelFromDomain(pr *billing.PaymentRequest) *PaymentRequestModel {
	m := &PaymentRequestModel{}
	m.FromDomain(pr)
	return m
}

// AttachmentModel is the persistence model for payment request attachments.
type AttachmentModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	RequestID  uuid.UUID `gorm:"type:uuid;not null;index"`
	StorageKey string    `gorm:"type:varchar(500);not null"`
	Filename   string    `gorm:"type:varchar(255);not null"`
	MimeType   string    `gorm:"type:varchar(100);not null"`
	UploadedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AttachmentModel) TableName() string {
	return "payment_request_attachments"
}

// ToDomain converts the persistence model to a domain Attachment.
func (m *AttachmentModel) ToDomain() *billing.Attachment {
	return &billing.Attachment{
		ID:         m.ID,
		RequestID:  m.RequestID,
		StorageKey: m.StorageKey,
		Filename:   m.Filename,
		MimeType:   m.MimeType,
		UploadedAt: m.UploadedAt,
	}
}

// AttachmentModelFromDomain creates a new persistence model from a domain Attachment.
func AttachmentModelFromDomain(att *billing.Attachment) *AttachmentModel {
	return &AttachmentModel{
		ID:         att.ID,
		RequestID:  att.RequestID,
		StorageKey: att.StorageKey,
		Filename:   att.Filename,
		MimeType:   att.MimeType,
		UploadedAt: att.UploadedAt,
	}
}

// PayeeModel is the persistence model for the Payee entity.
type PayeeModel struct {
	BaseModel
	DisplayName string           `gorm:"type:varchar(200);not null"`
	Email       string           `gorm:"type:varchar(255);index"`
	ContactID   string           `gorm:"type:varchar(100);not null;default:''"`
	HourlyRate  *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Active      bool             `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (PayeeModel) TableName() string {
	return "payees"
}

// ToDomain converts the persistence model to a domain Payee entity.
func (m *PayeeModel) ToDomain() *billing.Payee {
	return &billing.Payee{
		BaseEntity:  m.BaseModel.ToDomain(),
		DisplayName: m.DisplayName,
		Email:       m.Email,
		ContactID:   m.ContactID,
		HourlyRate:  m.HourlyRate,
		Active:      m.Active,
	}
}

// FromDomain populates the persistence model from a domain Payee entity.
func (m *PayeeModel) FromDomain(p *billing.Payee) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.DisplayName = p.DisplayName
	m.Email = p.Email
	m.ContactID = p.ContactID
	m.HourlyRate = p.HourlyRate
	m.Active = p.Active
}

// PayeeModelFromDomain creates a new persistence model from a domain Payee.
func PayeeModelFromDomain(p *billing.Payee) *PayeeModel {
	m := &PayeeModel{}
	m.FromDomain(p)
	return m
}
