package handler

import (
	"context"
	"sync"
	"time"

	appbilling "github.com/billsync/backend/internal/application/billing"
	syncapp "github.com/billsync/backend/internal/application/sync"
	"github.com/billsync/backend/internal/domain/accounting"
	"github.com/billsync/backend/internal/domain/billing"
	"github.com/billsync/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ---------- In-memory fakes ----------

type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*billing.PaymentRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[uuid.UUID]*billing.PaymentRequest)}
}

func (r *fakeRequestRepo) FindByID(ctx context.Context, id uuid.UUID) (*billing.PaymentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return req, nil
}

func (r *fakeRequestRepo) FindAll(ctx context.Context, filter billing.PaymentRequestFilter) ([]billing.PaymentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]billing.PaymentRequest, 0, len(r.requests))
	for _, req := range r.requests {
		if filter.Bundle != nil && req.Bundle != *filter.Bundle {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		if filter.OwnerID != nil && req.OwnerID != *filter.OwnerID {
			continue
		}
		out = append(out, *req)
	}
	return out, nil
}

func (r *fakeRequestRepo) FindPendingSync(ctx context.Context, limit int) ([]billing.PaymentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]billing.PaymentRequest, 0)
	for _, req := range r.requests {
		if req.Status == billing.StatusSubmitted && req.InvoiceID == "" {
			out = append(out, *req)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) FindSyncedUnpaid(ctx context.Context) ([]billing.PaymentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]billing.PaymentRequest, 0)
	for _, req := range r.requests {
		if req.InvoiceID != "" && req.Status != billing.StatusPaid {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) CountEquivalent(ctx context.Context, excludeID uuid.UUID, bundle billing.RequestBundle, amount decimal.Decimal, payeeID uuid.UUID, since time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeRequestRepo) SetInvoiceID(ctx context.Context, id uuid.UUID, invoiceID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok || req.InvoiceID != "" {
		return false, nil
	}
	req.InvoiceID = invoiceID
	return true, nil
}

func (r *fakeRequestRepo) Save(ctx context.Context, request *billing.PaymentRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[request.ID] = request
	return nil
}

type fakePayeeRepo struct {
	mu     sync.Mutex
	payees map[uuid.UUID]*billing.Payee
}

func newFakePayeeRepo() *fakePayeeRepo {
	return &fakePayeeRepo{payees: make(map[uuid.UUID]*billing.Payee)}
}

func (r *fakePayeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payees[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakePayeeRepo) FindByEmail(ctx context.Context, email string) (*billing.Payee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payees {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakePayeeRepo) FindAll(ctx context.Context) ([]billing.Payee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]billing.Payee, 0, len(r.payees))
	for _, p := range r.payees {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePayeeRepo) SetContactID(ctx context.Context, id uuid.UUID, contactID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payees[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.ContactID = contactID
	return nil
}

func (r *fakePayeeRepo) Save(ctx context.Context, payee *billing.Payee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payees[payee.ID] = payee
	return nil
}

type fakeGateway struct {
	configured bool
}

func (g *fakeGateway) IsConfigured() bool { return g.configured }

func (g *fakeGateway) SearchContactByEmail(ctx context.Context, email string) (*accounting.Contact, error) {
	return nil, accounting.ErrContactNotFound
}

func (g *fakeGateway) CreateInvoice(ctx context.Context, invoice *accounting.Invoice) (string, error) {
	return "inv-test", nil
}

func (g *fakeGateway) QueryPaidInvoices(ctx context.Context, invoiceIDs []string) ([]accounting.InvoiceStatusResult, error) {
	return nil, nil
}

func (g *fakeGateway) UploadAttachment(ctx context.Context, invoiceID, filename string, data []byte, mimeType string) error {
	return nil
}

type fakeLockStore struct{}

func (fakeLockStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (fakeLockStore) Release(ctx context.Context, key string) error { return nil }

func (fakeLockStore) Close() error { return nil }

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error { return nil }

// ---------- Fixture ----------

type handlerFixture struct {
	requests    *fakeRequestRepo
	payees      *fakePayeeRepo
	gateway     *fakeGateway
	config      *syncapp.ConfigStore
	reqService  *appbilling.PaymentRequestService
	payeeSvc    *appbilling.PayeeService
	syncService *syncapp.Service
	engine      *gin.Engine
}

func newHandlerFixture() *handlerFixture {
	logger := zap.NewNop()
	requests := newFakeRequestRepo()
	payees := newFakePayeeRepo()
	gateway := &fakeGateway{}
	config := syncapp.NewConfigStore(syncapp.DefaultConfig())

	contacts := syncapp.NewContactResolver(gateway, payees, logger)
	uploader := syncapp.NewAttachmentUploader(nil, gateway, logger)

	f := &handlerFixture{
		requests: requests,
		payees:   payees,
		gateway:  gateway,
		config:   config,
		reqService: appbilling.NewPaymentRequestService(
			requests, payees, noopPublisher{}, config, logger),
		payeeSvc: appbilling.NewPayeeService(payees, logger),
		syncService: syncapp.NewService(
			requests, payees, gateway, contacts, uploader, config, fakeLockStore{}, logger),
	}

	f.engine = gin.New()
	api := f.engine.Group("/api/v1")
	NewPaymentRequestHandler(f.reqService, f.syncService).RegisterRoutes(api)
	NewPayeeHandler(f.payeeSvc).RegisterRoutes(api)
	NewSyncHandler(f.syncService, f.config).RegisterRoutes(api)

	return f
}
