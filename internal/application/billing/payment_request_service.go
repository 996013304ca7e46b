// Package billing contains the application services for managing payment
// requests and payees. The sync engine consumes the aggregates these
// services produce.
package billing

import (
	"context"

	syncapp "github.com/billsync/backend/internal/application/sync"
	"github.com/billsync/backend/internal/domain/billing"
	"github.com/billsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreatePaymentRequestInput carries the fields accepted when creating a request
type CreatePaymentRequestInput struct {
	Bundle               billing.RequestBundle
	Label                string
	Description          string
	Amount               *decimal.Decimal
	OwnerID              uuid.UUID
	PayeeID              *uuid.UUID
	ReimburseAccountCode string
	PaymentAccountCode   string
	Hours                *decimal.Decimal
	HourlyRate           *decimal.Decimal
	Miles                *decimal.Decimal
}

// UpdatePaymentRequestInput carries the optional fields of an update.
// Nil pointers leave the current value untouched.
type UpdatePaymentRequestInput struct {
	Label                *string
	Description          *string
	Amount               *decimal.Decimal
	PayeeID              *uuid.UUID
	ReimburseAccountCode *string
	PaymentAccountCode   *string
	Hours                *decimal.Decimal
	HourlyRate           *decimal.Decimal
	Miles                *decimal.Decimal
}

// PaymentRequestService manages the payment request lifecycle up to the
// point where the sync engine takes over
type PaymentRequestService struct {
	requests billing.PaymentRequestRepository
	payees   billing.PayeeRepository
	events   shared.EventPublisher
	config   *syncapp.ConfigStore
	logger   *zap.Logger
}

// NewPaymentRequestService creates a new PaymentRequestService
func NewPaymentRequestService(
	requests billing.PaymentRequestRepository,
	payees billing.PayeeRepository,
	events shared.EventPublisher,
	config *syncapp.ConfigStore,
	logger *zap.Logger,
) *PaymentRequestService {
	return &PaymentRequestService{
		requests: requests,
		payees:   payees,
		events:   events,
		config:   config,
		logger:   logger,
	}
}

// Create creates a new draft payment request. When hours or miles are given
// the amount is derived server side instead of being taken from the input.
func (s *PaymentRequestService) Create(ctx context.Context, input CreatePaymentRequestInput) (*billing.PaymentRequest, error) {
	amount := decimal.Zero
	if input.Amount != nil {
		amount = *input.Amount
	}

	request, err := billing.NewPaymentRequest(input.Bundle, input.Label, amount, input.OwnerID)
	if err != nil {
		return nil, err
	}

	if input.Description != "" {
		if err := request.SetDescription(input.Description); err != nil {
			return nil, err
		}
	}
	if input.PayeeID != nil {
		if err := s.assignPayee(ctx, request, input.PayeeID); err != nil {
			return nil, err
		}
	}
	if input.ReimburseAccountCode != "" || input.PaymentAccountCode != "" {
		if err := request.SetAccountCodeOverrides(input.ReimburseAccountCode, input.PaymentAccountCode); err != nil {
			return nil, err
		}
	}

	if err := s.applyCalculations(ctx, request, input.Hours, input.HourlyRate, input.Miles); err != nil {
		return nil, err
	}

	if err := s.requests.Save(ctx, request); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, request)

	s.logger.Info("Payment request created",
		zap.String("request_id", request.ID.String()),
		zap.String("bundle", request.Bundle.String()),
		zap.String("amount", request.Amount.String()))
	return request, nil
}

// GetByID returns a single payment request
func (s *PaymentRequestService) GetByID(ctx context.Context, id uuid.UUID) (*billing.PaymentRequest, error) {
	return s.requests.FindByID(ctx, id)
}

// List returns payment requests matching the filter
func (s *PaymentRequestService) List(ctx context.Context, filter billing.PaymentRequestFilter) ([]billing.PaymentRequest, error) {
	return s.requests.FindAll(ctx, filter)
}

// Update applies partial changes to a draft or submitted-but-unsynced
// request. The domain rejects edits once an invoice identifier exists.
func (s *PaymentRequestService) Update(ctx context.Context, id uuid.UUID, input UpdatePaymentRequestInput) (*billing.PaymentRequest, error) {
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Label != nil {
		request.Label = *input.Label
	}
	if input.Description != nil {
		if err := request.SetDescription(*input.Description); err != nil {
			return nil, err
		}
	}
	if input.PayeeID != nil {
		if err := s.assignPayee(ctx, request, input.PayeeID); err != nil {
			return nil, err
		}
	}
	if input.ReimburseAccountCode != nil || input.PaymentAccountCode != nil {
		reimburse := request.ReimburseAccountCode
		payment := request.PaymentAccountCode
		if input.ReimburseAccountCode != nil {
			reimburse = *input.ReimburseAccountCode
		}
		if input.PaymentAccountCode != nil {
			payment = *input.PaymentAccountCode
		}
		if err := request.SetAccountCodeOverrides(reimburse, payment); err != nil {
			return nil, err
		}
	}
	if input.Amount != nil {
		if err := request.SetAmount(*input.Amount); err != nil {
			return nil, err
		}
	}
	if err := s.applyCalculations(ctx, request, input.Hours, input.HourlyRate, input.Miles); err != nil {
		return nil, err
	}

	request.IncrementVersion()
	if err := s.requests.Save(ctx, request); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, request)
	return request, nil
}

// Submit moves a draft request to submitted and publishes the event the
// sync engine listens for
func (s *PaymentRequestService) Submit(ctx context.Context, id uuid.UUID) (*billing.PaymentRequest, error) {
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := request.Submit(); err != nil {
		return nil, err
	}
	if err := s.requests.Save(ctx, request); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, request)

	s.logger.Info("Payment request submitted",
		zap.String("request_id", request.ID.String()))
	return request, nil
}

// AddAttachment records an uploaded file against a request
func (s *PaymentRequestService) AddAttachment(ctx context.Context, id uuid.UUID, storageKey, filename, mimeType string) (*billing.Attachment, error) {
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	attachment, err := request.AddAttachment(storageKey, filename, mimeType)
	if err != nil {
		return nil, err
	}
	if err := s.requests.Save(ctx, request); err != nil {
		return nil, err
	}
	return attachment, nil
}

// assignPayee validates the payee exists before linking it
func (s *PaymentRequestService) assignPayee(ctx context.Context, request *billing.PaymentRequest, payeeID *uuid.UUID) error {
	if _, err := s.payees.FindByID(ctx, *payeeID); err != nil {
		return shared.NewDomainError("PAYEE_NOT_FOUND", "Payee does not exist")
	}
	return request.SetPayee(payeeID)
}

// applyCalculations derives the amount from hours or miles when present.
// The hourly rate resolution order is request rate, payee rate, configured
// default rate.
func (s *PaymentRequestService) applyCalculations(ctx context.Context, request *billing.PaymentRequest, hours, hourlyRate, miles *decimal.Decimal) error {
	if hours != nil {
		rate := s.resolveHourlyRate(ctx, request, hourlyRate)
		if err := request.ApplyHourlyCalculation(*hours, rate); err != nil {
			return err
		}
	}
	if miles != nil {
		if err := request.ApplyMileageCalculation(*miles); err != nil {
			return err
		}
	}
	return nil
}

func (s *PaymentRequestService) resolveHourlyRate(ctx context.Context, request *billing.PaymentRequest, explicit *decimal.Decimal) decimal.Decimal {
	if explicit != nil {
		return *explicit
	}
	if request.PayeeID != nil {
		if payee, err := s.payees.FindByID(ctx, *request.PayeeID); err == nil && payee.HourlyRate != nil {
			return *payee.HourlyRate
		}
	}
	return s.config.Snapshot().DefaultHourlyRate
}

// publishEvents flushes the aggregate's pending events to the bus
func (s *PaymentRequestService) publishEvents(ctx context.Context, request *billing.PaymentRequest) {
	events := request.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish payment request events",
			zap.String("request_id", request.ID.String()),
			zap.Error(err))
	}
	request.ClearDomainEvents()
}
