package persistence

import (
	"context"
	"errors"

	"github.com/billsync/backend/internal/domain/billing"
	"github.com/billsync/backend/internal/domain/shared"
	"github.com/billsync/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPayeeRepository implements PayeeRepository using GORM
type GormPayeeRepository struct {
	db *gorm.DB
}

var _ billing.PayeeRepository = (*GormPayeeRepository)(nil)

// NewGormPayeeRepository creates a new GormPayeeRepository
func NewGormPayeeRepository(db *gorm.DB) *GormPayeeRepository {
	return &GormPayeeRepository{db: db}
}

// FindByID finds a payee by its ID
func (r *GormPayeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payee, error) {
	var model models.PayeeModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a payee by email address
func (r *GormPayeeRepository) FindByEmail(ctx context.Context, email string) (*billing.Payee, error) {
	var model models.PayeeModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all payees
func (r *GormPayeeRepository) FindAll(ctx context.Context) ([]billing.Payee, error) {
	var payeeModels []models.PayeeModel
	if err := r.db.WithContext(ctx).
		Order("display_name ASC").
		Find(&payeeModels).Error; err != nil {
		return nil, err
	}
	payees := make([]billing.Payee, len(payeeModels))
	for i, model := range payeeModels {
		payees[i] = *model.ToDomain()
	}
	return payees, nil
}

// SetContactID writes the cached external contact identifier for a payee
func (r *GormPayeeRepository) SetContactID(ctx context.Context, id uuid.UUID, contactID string) error {
	result := r.db.WithContext(ctx).Model(&models.PayeeModel{}).
		Where("id = ?", id).
		Update("contact_id", contactID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Save creates or updates a payee
func (r *GormPayeeRepository) Save(ctx context.Context, payee *billing.Payee) error {
	model := models.PayeeModelFromDomain(payee)
	return r.db.WithContext(ctx).Save(model).Error
}
