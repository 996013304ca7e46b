package billing

import (
	"context"

	"github.com/billsync/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreatePayeeInput carries the fields accepted when creating a payee
type CreatePayeeInput struct {
	DisplayName string
	Email       string
	HourlyRate  *decimal.Decimal
}

// UpdatePayeeInput carries the optional fields of a payee update
type UpdatePayeeInput struct {
	DisplayName *string
	Email       *string
	HourlyRate  *decimal.Decimal
	Active      *bool
}

// PayeeService manages payees
type PayeeService struct {
	payees billing.PayeeRepository
	logger *zap.Logger
}

// NewPayeeService creates a new PayeeService
func NewPayeeService(payees billing.PayeeRepository, logger *zap.Logger) *PayeeService {
	return &PayeeService{payees: payees, logger: logger}
}

// Create creates a new payee
func (s *PayeeService) Create(ctx context.Context, input CreatePayeeInput) (*billing.Payee, error) {
	payee, err := billing.NewPayee(input.DisplayName, input.Email)
	if err != nil {
		return nil, err
	}
	if input.HourlyRate != nil {
		if err := payee.SetHourlyRate(*input.HourlyRate); err != nil {
			return nil, err
		}
	}
	if err := s.payees.Save(ctx, payee); err != nil {
		return nil, err
	}
	s.logger.Info("Payee created",
		zap.String("payee_id", payee.ID.String()),
		zap.String("display_name", payee.DisplayName))
	return payee, nil
}

// GetByID returns a single payee
func (s *PayeeService) GetByID(ctx context.Context, id uuid.UUID) (*billing.Payee, error) {
	return s.payees.FindByID(ctx, id)
}

// List returns all payees
func (s *PayeeService) List(ctx context.Context) ([]billing.Payee, error) {
	return s.payees.FindAll(ctx)
}

// Update applies partial changes to a payee. Changing the email clears the
// cached contact identifier so the next sync looks the contact up again.
func (s *PayeeService) Update(ctx context.Context, id uuid.UUID, input UpdatePayeeInput) (*billing.Payee, error) {
	payee, err := s.payees.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		payee.DisplayName = *input.DisplayName
	}
	if input.Email != nil && *input.Email != payee.Email {
		payee.Email = *input.Email
		payee.ContactID = ""
	}
	if input.HourlyRate != nil {
		if err := payee.SetHourlyRate(*input.HourlyRate); err != nil {
			return nil, err
		}
	}
	if input.Active != nil && !*input.Active {
		payee.Deactivate()
	}

	if err := s.payees.Save(ctx, payee); err != nil {
		return nil, err
	}
	return payee, nil
}
