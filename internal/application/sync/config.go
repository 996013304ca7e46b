package sync

import (
	"sync"
	"time"

	"github.com/billsync/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// DefaultAccountCode is used when a bundle has no configured mapping and the
// request carries no override
const DefaultAccountCode = "600"

// maxReconcileChunkSize is the most invoice identifiers the accounting
// provider accepts in a single status query
const maxReconcileChunkSize = 40

// Config is an immutable snapshot of the sync settings. Each orchestration
// call works from one snapshot, so a single run stays deterministic even if
// settings change concurrently.
type Config struct {
	// Enabled is the global sync toggle
	Enabled bool
	// BacklogEnabled controls whether the scheduled backlog sweep runs
	BacklogEnabled bool
	// BacklogLimit is the maximum number of requests per backlog sweep
	BacklogLimit int
	// AttachmentsEnabled controls whether linked files are uploaded
	AttachmentsEnabled bool
	// AccountMappings maps a request bundle to its default account code
	AccountMappings map[billing.RequestBundle]string
	// DefaultHourlyRate seeds the hourly calculator when the payee has none
	DefaultHourlyRate decimal.Decimal
	// DuplicateWindow is the trailing window for duplicate suppression
	DuplicateWindow time.Duration
	// DueTermDays is added to the issue date to compute the invoice due date
	DueTermDays int
	// ReconcileChunkSize is the number of invoice identifiers per status query
	ReconcileChunkSize int
}

// DefaultConfig returns the default sync settings
func DefaultConfig() Config {
	return Config{
		Enabled:            false,
		BacklogEnabled:     false,
		BacklogLimit:       50,
		AttachmentsEnabled: true,
		AccountMappings: map[billing.RequestBundle]string{
			billing.BundleReimbursement: "600",
			billing.BundlePayment:       "601",
		},
		DefaultHourlyRate:  decimal.NewFromInt(25),
		DuplicateWindow:    24 * time.Hour,
		DueTermDays:        30,
		ReconcileChunkSize: 40,
	}
}

// normalized fills zero values with defaults so a partially populated
// snapshot still behaves sanely
func (c Config) normalized() Config {
	if c.BacklogLimit <= 0 {
		c.BacklogLimit = 50
	}
	if c.DuplicateWindow <= 0 {
		c.DuplicateWindow = 24 * time.Hour
	}
	if c.DueTermDays <= 0 {
		c.DueTermDays = 30
	}
	if c.ReconcileChunkSize <= 0 || c.ReconcileChunkSize > maxReconcileChunkSize {
		c.ReconcileChunkSize = maxReconcileChunkSize
	}
	return c
}

// AccountCodeFor returns the configured account code for a bundle, or the
// fixed fallback when the bundle is unmapped
func (c Config) AccountCodeFor(bundle billing.RequestBundle) string {
	if code, ok := c.AccountMappings[bundle]; ok && code != "" {
		return code
	}
	return DefaultAccountCode
}

// ConfigStore holds the current sync settings behind a read-write lock.
// Readers take snapshots, writers replace the whole value.
type ConfigStore struct {
	mu  sync.RWMutex
	cfg Config
}

// NewConfigStore creates a config store seeded with the given settings
func NewConfigStore(cfg Config) *ConfigStore {
	return &ConfigStore{cfg: cfg.normalized()}
}

// Snapshot returns a copy of the current settings
func (s *ConfigStore) Snapshot() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := s.cfg
	// Copy the mapping so callers cannot mutate shared state
	mappings := make(map[billing.RequestBundle]string, len(cfg.AccountMappings))
	for k, v := range cfg.AccountMappings {
		mappings[k] = v
	}
	cfg.AccountMappings = mappings
	return cfg
}

// Update replaces the current settings
func (s *ConfigStore) Update(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg.normalized()
}
