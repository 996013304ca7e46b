package handler

import (
	"github.com/billsync/backend/internal/application/billing"
	syncapp "github.com/billsync/backend/internal/application/sync"
	domainbilling "github.com/billsync/backend/internal/domain/billing"
	"github.com/billsync/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentRequestHandler handles payment request API endpoints
type PaymentRequestHandler struct {
	BaseHandler
	requests *billing.PaymentRequestService
	sync     *syncapp.Service
}

// NewPaymentRequestHandler creates a new PaymentRequestHandler
func NewPaymentRequestHandler(requests *billing.PaymentRequestService, sync *syncapp.Service) *PaymentRequestHandler {
	return &PaymentRequestHandler{requests: requests, sync: sync}
}

// RegisterRoutes registers payment request routes
func (h *PaymentRequestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	requests := rg.Group("/payment-requests")
	{
		requests.POST("", h.Create)
		requests.GET("", h.List)
		requests.GET("/:id", h.Get)
		requests.PUT("/:id", h.Update)
		requests.POST("/:id/submit", h.Submit)
		requests.POST("/:id/sync", h.Sync)
		requests.POST("/:id/attachments", h.AddAttachment)
	}
}

// Create creates a new payment request
func (h *PaymentRequestHandler) Create(c *gin.Context) {
	var req dto.CreatePaymentRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing or invalid user identity")
		return
	}

	request, err := h.requests.Create(c.Request.Context(), billing.CreatePaymentRequestInput{
		Bundle:               domainbilling.RequestBundle(req.Bundle),
		Label:                req.Label,
		Description:          req.Description,
		Amount:               req.Amount,
		OwnerID:              ownerID,
		PayeeID:              req.PayeeID,
		ReimburseAccountCode: req.ReimburseAccountCode,
		PaymentAccountCode:   req.PaymentAccountCode,
		Hours:                req.Hours,
		HourlyRate:           req.HourlyRate,
		Miles:                req.Miles,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.PaymentRequestFromDomain(request))
}

// List returns payment requests matching the query filters
func (h *PaymentRequestHandler) List(c *gin.Context) {
	var req dto.ListPaymentRequestsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	req.Normalize()

	filter := domainbilling.PaymentRequestFilter{
		Limit:  req.PageSize,
		Offset: (req.Page - 1) * req.PageSize,
	}
	if req.Bundle != "" {
		bundle := domainbilling.RequestBundle(req.Bundle)
		filter.Bundle = &bundle
	}
	if req.Status != "" {
		status := domainbilling.RequestStatus(req.Status)
		filter.Status = &status
	}
	if req.OwnerID != "" {
		ownerID, err := uuid.Parse(req.OwnerID)
		if err != nil {
			h.BadRequest(c, "Invalid owner_id parameter")
			return
		}
		filter.OwnerID = &ownerID
	}

	requests, err := h.requests.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.PaymentRequestsFromDomain(requests))
}

// Get returns a single payment request by ID
func (h *PaymentRequestHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	request, err := h.requests.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.PaymentRequestFromDomain(request))
}

// Update applies partial changes to an unsynced payment request
func (h *PaymentRequestHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePaymentRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	request, err := h.requests.Update(c.Request.Context(), id, billing.UpdatePaymentRequestInput{
		Label:                req.Label,
		Description:          req.Description,
		Amount:               req.Amount,
		PayeeID:              req.PayeeID,
		ReimburseAccountCode: req.ReimburseAccountCode,
		PaymentAccountCode:   req.PaymentAccountCode,
		Hours:                req.Hours,
		HourlyRate:           req.HourlyRate,
		Miles:                req.Miles,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.PaymentRequestFromDomain(request))
}

// Submit moves a draft request to submitted, making it eligible for sync
func (h *PaymentRequestHandler) Submit(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	request, err := h.requests.Submit(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.PaymentRequestFromDomain(request))
}

// Sync pushes a single request to the accounting provider on demand
func (h *PaymentRequestHandler) Sync(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	outcome, err := h.sync.SyncByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.SyncResultResponse{
		RequestID: id.String(),
		Outcome:   string(outcome),
		Synced:    outcome == syncapp.OutcomeSynced || outcome == syncapp.OutcomeAlreadySynced,
	})
}

// AddAttachment links an already-stored file to a payment request
func (h *PaymentRequestHandler) AddAttachment(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AddAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	attachment, err := h.requests.AddAttachment(c.Request.Context(), id, req.StorageKey, req.Filename, req.MimeType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.AttachmentResponse{
		ID:         attachment.ID,
		StorageKey: attachment.StorageKey,
		Filename:   attachment.Filename,
		MimeType:   attachment.MimeType,
		UploadedAt: attachment.UploadedAt,
	})
}
