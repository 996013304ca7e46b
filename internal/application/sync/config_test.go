package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/billsync/backend/internal/domain/billing"
)

func TestConfigStore_SnapshotIsolation(t *testing.T) {
	store := NewConfigStore(DefaultConfig())

	snap := store.Snapshot()
	snap.AccountMappings[billing.BundleReimbursement] = "mutated"
	snap.Enabled = true

	// Mutating a snapshot never leaks back into the store
	fresh := store.Snapshot()
	assert.False(t, fresh.Enabled)
	assert.NotEqual(t, "mutated", fresh.AccountMappings[billing.BundleReimbursement])
}

func TestConfigStore_Update(t *testing.T) {
	store := NewConfigStore(DefaultConfig())

	cfg := store.Snapshot()
	cfg.Enabled = true
	cfg.BacklogLimit = 25
	store.Update(cfg)

	updated := store.Snapshot()
	assert.True(t, updated.Enabled)
	assert.Equal(t, 25, updated.BacklogLimit)
}

func TestConfig_NormalizedFillsZeroValues(t *testing.T) {
	store := NewConfigStore(Config{Enabled: true})
	cfg := store.Snapshot()

	assert.Equal(t, 50, cfg.BacklogLimit)
	assert.Equal(t, 24*time.Hour, cfg.DuplicateWindow)
	assert.Equal(t, 30, cfg.DueTermDays)
	assert.Equal(t, 40, cfg.ReconcileChunkSize)
}

func TestConfig_NormalizedCapsReconcileChunkSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReconcileChunkSize = 100
	store := NewConfigStore(cfg)

	// The provider rejects status queries above maxReconcileChunkSize, so
	// oversized settings collapse to the cap instead of failing every sweep.
	assert.Equal(t, maxReconcileChunkSize, store.Snapshot().ReconcileChunkSize)
}

func TestConfig_AccountCodeFor(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "600", cfg.AccountCodeFor(billing.BundleReimbursement))
	assert.Equal(t, "601", cfg.AccountCodeFor(billing.BundlePayment))
	assert.Equal(t, DefaultAccountCode, cfg.AccountCodeFor(billing.RequestBundle("other")))
}
