package handler

import (
	"github.com/billsync/backend/internal/application/billing"
	"github.com/billsync/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// PayeeHandler handles payee API endpoints
type PayeeHandler struct {
	BaseHandler
	payees *billing.PayeeService
}

// NewPayeeHandler creates a new PayeeHandler
func NewPayeeHandler(payees *billing.PayeeService) *PayeeHandler {
	return &PayeeHandler{payees: payees}
}

// RegisterRoutes registers payee routes
func (h *PayeeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payees := rg.Group("/payees")
	{
		payees.POST("", h.Create)
		payees.GET("", h.List)
		payees.GET("/:id", h.Get)
		payees.PUT("/:id", h.Update)
	}
}

// Create registers a new payee
func (h *PayeeHandler) Create(c *gin.Context) {
	var req dto.CreatePayeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	payee, err := h.payees.Create(c.Request.Context(), billing.CreatePayeeInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		HourlyRate:  req.HourlyRate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.PayeeFromDomain(payee))
}

// List returns all payees
func (h *PayeeHandler) List(c *gin.Context) {
	payees, err := h.payees.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.PayeesFromDomain(payees))
}

// Get returns a single payee by ID
func (h *PayeeHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	payee, err := h.payees.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.PayeeFromDomain(payee))
}

// Update applies partial changes to a payee
func (h *PayeeHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePayeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	payee, err := h.payees.Update(c.Request.Context(), id, billing.UpdatePayeeInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		HourlyRate:  req.HourlyRate,
		Active:      req.Active,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.PayeeFromDomain(payee))
}
