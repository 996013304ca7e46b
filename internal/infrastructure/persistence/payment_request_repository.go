package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/billsync/backend/internal/domain/billing"
	"github.com/billsync/backend/internal/domain/shared"
	"github.com/billsync/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPaymentRequestRepository implements PaymentRequestRepository using GORM
type GormPaymentRequestRepository struct {
	db *gorm.DB
}

var _ billing.PaymentRequestRepository = (*GormPaymentRequestRepository)(nil)

// NewGormPaymentRequestRepository creates a new GormPaymentRequestRepository
func NewGormPaymentRequestRepository(db *gorm.DB) *GormPaymentRequestRepository {
	return &GormPaymentRequestRepository{db: db}
}

// FindByID finds a payment request by its ID
func (r *GormPaymentRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PaymentRequest, error) {
	var model models.PaymentRequestModel
	if err := r.db.WithContext(ctx).
		Preload("Attachments").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds payment requests matching the filter
func (r *GormPaymentRequestRepository) FindAll(ctx context.Context, filter billing.PaymentRequestFilter) ([]billing.PaymentRequest, error) {
	var requestModels []models.PaymentRequestModel
	query := r.db.WithContext(ctx).Model(&models.PaymentRequestModel{}).
		Preload("Attachments")
	query = r.applyFilter(query, filter)

	if err := query.Order("created_at DESC").Find(&requestModels).Error; err != nil {
		return nil, err
	}
	return toDomainRequests(requestModels), nil
}

// FindPendingSync finds up to limit submitted requests without an invoice
// identifier, oldest first
func (r *GormPaymentRequestRepository) FindPendingSync(ctx context.Context, limit int) ([]billing.PaymentRequest, error) {
	var requestModels []models.PaymentRequestModel
	query := r.db.WithContext(ctx).
		Preload("Attachments").
		Where("status = ? AND invoice_id = ?", billing.StatusSubmitted, "").
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&requestModels).Error; err != nil {
		return nil, err
	}
	return toDomainRequests(requestModels), nil
}

// FindSyncedUnpaid finds requests with an invoice identifier that are not yet paid
func (r *GormPaymentRequestRepository) FindSyncedUnpaid(ctx context.Context) ([]billing.PaymentRequest, error) {
	var requestModels []models.PaymentRequestModel
	if err := r.db.WithContext(ctx).
		Preload("Attachments").
		Where("invoice_id <> ? AND status <> ?", "", billing.StatusPaid).
		Order("created_at ASC").
		Find(&requestModels).Error; err != nil {
		return nil, err
	}
	return toDomainRequests(requestModels), nil
}

// CountEquivalent counts requests other than excludeID with the same bundle
// and amount whose payee or owner matches payeeID, created at or after since
func (r *GormPaymentRequestRepository) CountEquivalent(ctx context.Context, excludeID uuid.UUID, bundle billing.RequestBundle, amount decimal.Decimal, payeeID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PaymentRequestModel{}).
		Where("id <> ? AND bundle = ? AND amount = ? AND created_at >= ?", excludeID, bundle, amount, since).
		Where("payee_id = ? OR owner_id = ?", payeeID, payeeID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SetInvoiceID writes the invoice identifier only when none is stored yet.
// The conditional update is what keeps concurrent syncs from overwriting the
// identifier written by the winner.
func (r *GormPaymentRequestRepository) SetInvoiceID(ctx context.Context, id uuid.UUID, invoiceID string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.PaymentRequestModel{}).
		Where("id = ? AND invoice_id = ?", id, "").
		Updates(map[string]interface{}{
			"invoice_id": invoiceID,
			"synced_at":  time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Save creates or updates a payment request
func (r *GormPaymentRequestRepository) Save(ctx context.Context, request *billing.PaymentRequest) error {
	model := models.PaymentRequestModelFromDomain(request)
	return r.db.WithContext(ctx).Save(model).Error
}

// applyFilter applies filter criteria to a payment request query
func (r *GormPaymentRequestRepository) applyFilter(query *gorm.DB, filter billing.PaymentRequestFilter) *gorm.DB {
	if filter.Bundle != nil {
		query = query.Where("bundle = ?", *filter.Bundle)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	return query
}

func toDomainRequests(requestModels []models.PaymentRequestModel) []billing.PaymentRequest {
	requests := make([]billing.PaymentRequest, len(requestModels))
	for i, model := range requestModels {
		requests[i] = *model.ToDomain()
	}
	return requests
}
