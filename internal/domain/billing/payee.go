package billing

import (
	"strings"
	"time"

	"github.com/billsync/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Payee represents a person or vendor money is paid to
// ContactID caches the accounting provider's contact identifier once a
// lookup has succeeded, so later syncs skip the remote search
type Payee struct {
	shared.BaseEntity
	DisplayName string           `json:"display_name"`
	Email       string           `json:"email"`
	ContactID   string           `json:"contact_id,omitempty"` // Cached external contact identifier
	HourlyRate  *decimal.Decimal `json:"hourly_rate,omitempty"`
	Active      bool             `json:"active"`
}

// NewPayee creates a new payee
func NewPayee(displayName, email string) (*Payee, error) {
	if displayName == "" {
		return nil, shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot be empty")
	}
	if len(displayName) > 255 {
		return nil, shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 255 characters")
	}

	return &Payee{
		BaseEntity:  shared.NewBaseEntity(),
		DisplayName: displayName,
		Email:       strings.TrimSpace(email),
		Active:      true,
	}, nil
}

// HasContactID returns true if an external contact identifier is cached
func (p *Payee) HasContactID() bool {
	return p.ContactID != ""
}

// HasEmail returns true if the payee has a usable email address
func (p *Payee) HasEmail() bool {
	return strings.TrimSpace(p.Email) != ""
}

// CacheContactID stores the external contact identifier found by lookup
// Overwriting with the same value is harmless, both writers found the
// same contact
func (p *Payee) CacheContactID(contactID string) error {
	if contactID == "" {
		return shared.NewDomainError("INVALID_CONTACT_ID", "Contact ID cannot be empty")
	}

	p.ContactID = contactID
	p.UpdatedAt = time.Now()

	return nil
}

// SetHourlyRate sets the default rate used by hourly payment calculations
func (p *Payee) SetHourlyRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Hourly rate cannot be negative")
	}

	p.HourlyRate = &rate
	p.UpdatedAt = time.Now()

	return nil
}

// Deactivate marks the payee as inactive
func (p *Payee) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
}
