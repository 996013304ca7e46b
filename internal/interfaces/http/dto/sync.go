package dto

import (
	"time"

	syncapp "github.com/billsync/backend/internal/application/sync"
	"github.com/billsync/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// SyncSettingsResponse is the API representation of the sync settings
type SyncSettingsResponse struct {
	Enabled            bool              `json:"enabled"`
	BacklogEnabled     bool              `json:"backlog_enabled"`
	BacklogLimit       int               `json:"backlog_limit"`
	AttachmentsEnabled bool              `json:"attachments_enabled"`
	AccountMappings    map[string]string `json:"account_mappings"`
	DefaultHourlyRate  decimal.Decimal   `json:"default_hourly_rate"`
	DuplicateWindowMin int               `json:"duplicate_window_minutes"`
	DueTermDays        int               `json:"due_term_days"`
}

// UpdateSyncSettingsRequest is the payload for replacing the sync settings.
// Nil fields keep their current value.
type UpdateSyncSettingsRequest struct {
	Enabled            *bool             `json:"enabled"`
	BacklogEnabled     *bool             `json:"backlog_enabled"`
	BacklogLimit       *int              `json:"backlog_limit" binding:"omitempty,min=1,max=500"`
	AttachmentsEnabled *bool             `json:"attachments_enabled"`
	AccountMappings    map[string]string `json:"account_mappings"`
	DefaultHourlyRate  *decimal.Decimal  `json:"default_hourly_rate"`
	DuplicateWindowMin *int              `json:"duplicate_window_minutes" binding:"omitempty,min=1"`
	DueTermDays        *int              `json:"due_term_days" binding:"omitempty,min=1,max=365"`
}

// SyncSettingsFromConfig converts a settings snapshot to its API shape
func SyncSettingsFromConfig(cfg syncapp.Config) SyncSettingsResponse {
	mappings := make(map[string]string, len(cfg.AccountMappings))
	for bundle, code := range cfg.AccountMappings {
		mappings[bundle.String()] = code
	}
	return SyncSettingsResponse{
		Enabled:            cfg.Enabled,
		BacklogEnabled:     cfg.BacklogEnabled,
		BacklogLimit:       cfg.BacklogLimit,
		AttachmentsEnabled: cfg.AttachmentsEnabled,
		AccountMappings:    mappings,
		DefaultHourlyRate:  cfg.DefaultHourlyRate,
		DuplicateWindowMin: int(cfg.DuplicateWindow.Minutes()),
		DueTermDays:        cfg.DueTermDays,
	}
}

// ApplyTo merges the non-nil fields into the given settings snapshot
func (r UpdateSyncSettingsRequest) ApplyTo(cfg syncapp.Config) syncapp.Config {
	if r.Enabled != nil {
		cfg.Enabled = *r.Enabled
	}
	if r.BacklogEnabled != nil {
		cfg.BacklogEnabled = *r.BacklogEnabled
	}
	if r.BacklogLimit != nil {
		cfg.BacklogLimit = *r.BacklogLimit
	}
	if r.AttachmentsEnabled != nil {
		cfg.AttachmentsEnabled = *r.AttachmentsEnabled
	}
	if r.AccountMappings != nil {
		mappings := make(map[billing.RequestBundle]string, len(r.AccountMappings))
		for bundle, code := range r.AccountMappings {
			mappings[billing.RequestBundle(bundle)] = code
		}
		cfg.AccountMappings = mappings
	}
	if r.DefaultHourlyRate != nil {
		cfg.DefaultHourlyRate = *r.DefaultHourlyRate
	}
	if r.DuplicateWindowMin != nil {
		cfg.DuplicateWindow = time.Duration(*r.DuplicateWindowMin) * time.Minute
	}
	if r.DueTermDays != nil {
		cfg.DueTermDays = *r.DueTermDays
	}
	return cfg
}

// SyncResultResponse reports the outcome of a single manual sync
type SyncResultResponse struct {
	RequestID string `json:"request_id"`
	Outcome   string `json:"outcome"`
	Synced    bool   `json:"synced"`
}

// BacklogResultResponse reports a backlog sweep
type BacklogResultResponse struct {
	Attempted int `json:"attempted"`
}

// ReconcileResultResponse reports a reconciliation pass
type ReconcileResultResponse struct {
	MarkedPaid int `json:"marked_paid"`
}

// BackfillRequest holds the optional backlog sweep limit
type BackfillRequest struct {
	Limit int `json:"limit" binding:"omitempty,min=1,max=500"`
}
