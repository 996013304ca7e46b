package handler

import (
	syncapp "github.com/billsync/backend/internal/application/sync"
	"github.com/billsync/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SyncHandler handles sync orchestration API endpoints
type SyncHandler struct {
	BaseHandler
	sync   *syncapp.Service
	config *syncapp.ConfigStore
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(sync *syncapp.Service, config *syncapp.ConfigStore) *SyncHandler {
	return &SyncHandler{sync: sync, config: config}
}

// RegisterRoutes registers sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.POST("/backfill", h.Backfill)
		sync.POST("/reconcile", h.Reconcile)
		sync.GET("/settings", h.GetSettings)
		sync.PUT("/settings", h.UpdateSettings)
	}
}

// Backfill sweeps submitted, not-yet-synced requests and pushes each one.
// The request body may cap the sweep size; zero falls back to the configured
// backlog limit.
func (h *SyncHandler) Backfill(c *gin.Context) {
	var req dto.BackfillRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}

	attempted, err := h.sync.SyncBacklog(c.Request.Context(), req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.BacklogResultResponse{Attempted: attempted})
}

// Reconcile queries the accounting provider for paid invoices and marks the
// matching local requests paid
func (h *SyncHandler) Reconcile(c *gin.Context) {
	marked, err := h.sync.ReconcilePaid(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.ReconcileResultResponse{MarkedPaid: marked})
}

// GetSettings returns the current sync settings
func (h *SyncHandler) GetSettings(c *gin.Context) {
	h.Success(c, dto.SyncSettingsFromConfig(h.config.Snapshot()))
}

// UpdateSettings merges the submitted fields into the sync settings
func (h *SyncHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdateSyncSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	updated := req.ApplyTo(h.config.Snapshot())
	h.config.Update(updated)

	h.Success(c, dto.SyncSettingsFromConfig(h.config.Snapshot()))
}
