package sync

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/billsync/backend/internal/domain/accounting"
	"github.com/billsync/backend/internal/domain/billing"
)

// ContactResolver maps a payee to the accounting provider's contact
// identifier. The cached identifier on the payee record is consulted first,
// a remote email lookup is the fallback, and a successful lookup warms the
// cache for the next sync.
type ContactResolver struct {
	gateway accounting.Gateway
	payees  billing.PayeeRepository
	logger  *zap.Logger
}

// NewContactResolver creates a new contact resolver
func NewContactResolver(gateway accounting.Gateway, payees billing.PayeeRepository, logger *zap.Logger) *ContactResolver {
	return &ContactResolver{
		gateway: gateway,
		payees:  payees,
		logger:  logger,
	}
}

// Resolve returns the external contact identifier for a payee.
// Returns accounting.ErrContactNotFound when no identifier can be found.
func (r *ContactResolver) Resolve(ctx context.Context, payee *billing.Payee) (string, error) {
	if payee.HasContactID() {
		return payee.ContactID, nil
	}

	if !payee.HasEmail() {
		return "", accounting.ErrContactNotFound
	}

	contact, err := r.gateway.SearchContactByEmail(ctx, payee.Email)
	if err != nil {
		if errors.Is(err, accounting.ErrContactNotFound) || errors.Is(err, accounting.ErrContactAmbiguous) {
			return "", accounting.ErrContactNotFound
		}
		// Lookup failures are logged, not retried inline
		r.logger.Error("Contact lookup failed",
			zap.String("payee_id", payee.ID.String()),
			zap.String("email", payee.Email),
			zap.Error(err),
		)
		return "", accounting.ErrContactNotFound
	}

	// Cache-fill: write the identifier back onto the payee record so the
	// next resolution skips the remote call. Concurrent resolvers may both
	// write the same value, which is harmless.
	if err := r.payees.SetContactID(ctx, payee.ID, contact.ContactID); err != nil {
		r.logger.Warn("Failed to cache contact ID on payee",
			zap.String("payee_id", payee.ID.String()),
			zap.String("contact_id", contact.ContactID),
			zap.Error(err),
		)
	} else {
		payee.ContactID = contact.ContactID
	}

	return contact.ContactID, nil
}
