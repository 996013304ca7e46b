package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/billsync/backend/internal/domain/accounting"
	"github.com/billsync/backend/internal/domain/billing"
	"github.com/billsync/backend/internal/domain/shared"
)

// Outcome describes how a single sync attempt ended
type Outcome string

const (
	// OutcomeDisabled means sync is turned off or the gateway lacks credentials
	OutcomeDisabled Outcome = "DISABLED"
	// OutcomeAlreadySynced means the request already carries an invoice identifier
	OutcomeAlreadySynced Outcome = "ALREADY_SYNCED"
	// OutcomeNotSubmitted means the request is not in submitted status
	OutcomeNotSubmitted Outcome = "NOT_SUBMITTED"
	// OutcomeIneligible means the record's category is outside the sync scope
	OutcomeIneligible Outcome = "INELIGIBLE"
	// OutcomePayeeUnresolved means no concrete payee identity could be loaded
	OutcomePayeeUnresolved Outcome = "PAYEE_UNRESOLVED"
	// OutcomeDuplicateBlocked means an equivalent request exists in the window
	OutcomeDuplicateBlocked Outcome = "DUPLICATE_BLOCKED"
	// OutcomeContactUnresolved means no provider contact matched the payee
	OutcomeContactUnresolved Outcome = "CONTACT_UNRESOLVED"
	// OutcomeConcurrentSync means another sync for the same request won the race
	OutcomeConcurrentSync Outcome = "CONCURRENT_SYNC"
	// OutcomeSubmitFailed means the gateway call or the identifier write failed
	OutcomeSubmitFailed Outcome = "SUBMIT_FAILED"
	// OutcomeSynced means the invoice was created and recorded
	OutcomeSynced Outcome = "SYNCED"
)

// syncLockTTL bounds how long a per-request sync lock can linger if a
// process dies mid-sync
const syncLockTTL = 2 * time.Minute

// Service orchestrates pushing payment requests to the accounting provider
// and pulling paid status back. All guard failures leave the request
// untouched so the next trigger can retry.
type Service struct {
	requests    billing.PaymentRequestRepository
	payees      billing.PayeeRepository
	gateway     accounting.Gateway
	contacts    *ContactResolver
	attachments *AttachmentUploader
	config      *ConfigStore
	locks       shared.SyncLockStore
	logger      *zap.Logger
}

// NewService creates a new sync service
func NewService(
	requests billing.PaymentRequestRepository,
	payees billing.PayeeRepository,
	gateway accounting.Gateway,
	contacts *ContactResolver,
	attachments *AttachmentUploader,
	config *ConfigStore,
	locks shared.SyncLockStore,
	logger *zap.Logger,
) *Service {
	return &Service{
		requests:    requests,
		payees:      payees,
		gateway:     gateway,
		contacts:    contacts,
		attachments: attachments,
		config:      config,
		locks:       locks,
		logger:      logger,
	}
}

// TrySync runs the per-request sync state machine. Guards are evaluated in
// a fixed order and the first failing guard halts with no side effects
// beyond logging.
func (s *Service) TrySync(ctx context.Context, req *billing.PaymentRequest) (Outcome, error) {
	cfg := s.config.Snapshot()

	// Guard 1: global toggle and gateway credentials. A disabled sync is the
	// normal no-op path, not an error.
	if !cfg.Enabled || !s.gateway.IsConfigured() {
		return OutcomeDisabled, nil
	}

	// Guard 2: only recognized request categories sync. The engine can be
	// invoked from a shared event stream carrying unrelated records.
	if !req.Bundle.IsValid() {
		return OutcomeIneligible, nil
	}

	// Guard 3: re-sync is never attempted
	if req.IsSynced() {
		return OutcomeAlreadySynced, nil
	}

	// Guard 4: drafts are never synced
	if !req.IsSubmitted() {
		return OutcomeNotSubmitted, nil
	}

	// Guard 5: the payee must resolve to a concrete identity
	payee, err := s.payees.FindByID(ctx, req.ResolvedPayeeID())
	if err != nil {
		s.logger.Error("Payee could not be resolved",
			zap.String("request_id", req.ID.String()),
			zap.String("payee_id", req.ResolvedPayeeID().String()),
			zap.Error(err),
		)
		return OutcomePayeeUnresolved, nil
	}

	// Guard 6: duplicate suppression inside the trailing window
	since := time.Now().Add(-cfg.DuplicateWindow)
	count, err := s.requests.CountEquivalent(ctx, req.ID, req.Bundle, req.Amount, payee.ID, since)
	if err != nil {
		s.logger.Error("Duplicate check failed",
			zap.String("request_id", req.ID.String()),
			zap.Error(err),
		)
		return OutcomeSubmitFailed, err
	}
	if count > 0 {
		s.logger.Error("Sync blocked by duplicate request",
			zap.String("request_id", req.ID.String()),
			zap.String("bundle", req.Bundle.String()),
			zap.String("amount", req.Amount.String()),
			zap.String("payee_id", payee.ID.String()),
			zap.Int64("equivalent_count", count),
		)
		return OutcomeDuplicateBlocked, nil
	}

	// Guard 7: the payee must map to a provider contact
	contactID, err := s.contacts.Resolve(ctx, payee)
	if err != nil {
		s.logger.Error("Contact could not be resolved",
			zap.String("request_id", req.ID.String()),
			zap.String("payee_id", payee.ID.String()),
			zap.Error(err),
		)
		return OutcomeContactUnresolved, nil
	}

	// Take a short per-request lock so two concurrent triggers do not both
	// create an invoice upstream. Lock store failures degrade to the
	// conditional identifier write below as the only protection.
	lockKey := "sync:request:" + req.ID.String()
	if acquired, lockErr := s.locks.Acquire(ctx, lockKey, syncLockTTL); lockErr != nil {
		s.logger.Warn("Sync lock unavailable, proceeding without it",
			zap.String("request_id", req.ID.String()),
			zap.Error(lockErr),
		)
	} else if !acquired {
		s.logger.Warn("Sync already in progress for request",
			zap.String("request_id", req.ID.String()),
		)
		return OutcomeConcurrentSync, nil
	} else {
		defer func() {
			if releaseErr := s.locks.Release(ctx, lockKey); releaseErr != nil {
				s.logger.Warn("Failed to release sync lock",
					zap.String("request_id", req.ID.String()),
					zap.Error(releaseErr),
				)
			}
		}()
	}

	invoice := BuildInvoice(req, contactID, ResolveAccountCode(req, cfg), cfg.DueTermDays, time.Now())

	invoiceID, err := s.gateway.CreateInvoice(ctx, invoice)
	if err != nil {
		s.logger.Error("Invoice creation failed",
			zap.String("request_id", req.ID.String()),
			zap.String("invoice_number", invoice.InvoiceNumber),
			zap.String("amount", req.Amount.String()),
			zap.Error(err),
		)
		return OutcomeSubmitFailed, nil
	}

	// Conditional write: only the first sync records the identifier. A lost
	// write means another sync already created an invoice, so the loser
	// must not upload attachments to its own orphaned invoice.
	won, err := s.requests.SetInvoiceID(ctx, req.ID, invoiceID)
	if err != nil {
		s.logger.Error("Failed to record invoice identifier",
			zap.String("request_id", req.ID.String()),
			zap.String("invoice_id", invoiceID),
			zap.Error(err),
		)
		return OutcomeSubmitFailed, fmt.Errorf("record invoice %s for request %s: %w", invoiceID, req.ID, err)
	}
	if !won {
		s.logger.Warn("Concurrent sync already recorded an invoice, discarding result",
			zap.String("request_id", req.ID.String()),
			zap.String("orphaned_invoice_id", invoiceID),
		)
		return OutcomeConcurrentSync, nil
	}

	if err := req.MarkSynced(invoiceID); err != nil {
		// The identifier is already persisted, keep the in-memory copy in step
		req.InvoiceID = invoiceID
	}

	s.logger.Info("Payment request synced",
		zap.String("request_id", req.ID.String()),
		zap.String("invoice_id", invoiceID),
		zap.String("amount", req.Amount.String()),
	)

	if cfg.AttachmentsEnabled && req.AttachmentCount() > 0 {
		uploaded := s.attachments.UploadAll(ctx, req)
		s.logger.Info("Attachments uploaded",
			zap.String("request_id", req.ID.String()),
			zap.Int("uploaded", uploaded),
			zap.Int("total", req.AttachmentCount()),
		)
	}

	return OutcomeSynced, nil
}

// SyncByID loads a request and runs TrySync on it
func (s *Service) SyncByID(ctx context.Context, id uuid.UUID) (Outcome, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return OutcomeSubmitFailed, err
	}
	return s.TrySync(ctx, req)
}

// SyncBacklogScheduled runs one periodic backlog sweep. Unlike a manual
// backfill it honors the backlog toggle, so operators can keep manual
// syncing available while the scheduled sweep stays off.
func (s *Service) SyncBacklogScheduled(ctx context.Context) (int, error) {
	if !s.config.Snapshot().BacklogEnabled {
		return 0, nil
	}
	return s.SyncBacklog(ctx, 0)
}

// SyncBacklog pushes up to limit submitted, not-yet-synced requests. A
// non-positive limit falls back to the configured backlog limit. The return
// value is the number of sync attempts, not the number that succeeded.
func (s *Service) SyncBacklog(ctx context.Context, limit int) (int, error) {
	cfg := s.config.Snapshot()
	if !cfg.Enabled {
		return 0, nil
	}
	if limit <= 0 {
		limit = cfg.BacklogLimit
	}

	pending, err := s.requests.FindPendingSync(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("load sync backlog: %w", err)
	}

	attempted := 0
	for i := range pending {
		attempted++
		if _, err := s.TrySync(ctx, &pending[i]); err != nil {
			// Per-request failures are already logged, keep sweeping
			continue
		}
	}

	s.logger.Info("Backlog sync pass finished", zap.Int("attempted", attempted))
	return attempted, nil
}

// ReconcilePaid queries the provider for paid invoices among all synced,
// unpaid requests and marks the matching local records paid. Status never
// moves backward. Returns the number of requests transitioned.
func (s *Service) ReconcilePaid(ctx context.Context) (int, error) {
	cfg := s.config.Snapshot()

	if !s.gateway.IsConfigured() {
		return 0, nil
	}

	unpaid, err := s.requests.FindSyncedUnpaid(ctx)
	if err != nil {
		return 0, fmt.Errorf("load synced unpaid requests: %w", err)
	}
	if len(unpaid) == 0 {
		return 0, nil
	}

	byInvoice := make(map[string]*billing.PaymentRequest, len(unpaid))
	invoiceIDs := make([]string, 0, len(unpaid))
	for i := range unpaid {
		req := &unpaid[i]
		if req.InvoiceID == "" {
			continue
		}
		if _, seen := byInvoice[req.InvoiceID]; !seen {
			invoiceIDs = append(invoiceIDs, req.InvoiceID)
		}
		byInvoice[req.InvoiceID] = req
	}

	updated := 0
	for start := 0; start < len(invoiceIDs); start += cfg.ReconcileChunkSize {
		end := start + cfg.ReconcileChunkSize
		if end > len(invoiceIDs) {
			end = len(invoiceIDs)
		}
		chunk := invoiceIDs[start:end]

		results, err := s.gateway.QueryPaidInvoices(ctx, chunk)
		if err != nil {
			// One bad chunk does not abort the remaining chunks
			s.logger.Error("Paid status query failed for chunk",
				zap.Int("chunk_start", start),
				zap.Int("chunk_size", len(chunk)),
				zap.Error(err),
			)
			continue
		}

		for _, res := range results {
			if res.Status != accounting.InvoiceStatusPaid {
				continue
			}
			req, ok := byInvoice[res.InvoiceID]
			if !ok || req.IsPaid() {
				continue
			}
			if err := req.MarkPaid(); err != nil {
				s.logger.Error("Failed to mark request paid",
					zap.String("request_id", req.ID.String()),
					zap.String("invoice_id", res.InvoiceID),
					zap.Error(err),
				)
				continue
			}
			if err := s.requests.Save(ctx, req); err != nil {
				s.logger.Error("Failed to persist paid status",
					zap.String("request_id", req.ID.String()),
					zap.String("invoice_id", res.InvoiceID),
					zap.Error(err),
				)
				continue
			}
			s.logger.Info("Payment request marked paid",
				zap.String("request_id", req.ID.String()),
				zap.String("invoice_id", res.InvoiceID),
			)
			updated++
		}
	}

	return updated, nil
}
