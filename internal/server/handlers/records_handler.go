package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmarinho2/prt-fiscal/internal/domain/models"
	repo "github.com/dmarinho2/prt-fiscal/internal/repository/supabase"
	"github.com/dmarinho2/prt-fiscal/internal/server/middleware"
	recordsvc "github.com/dmarinho2/prt-fiscal/internal/service/records"
)

// RecordsHandler exposes the record and catalog endpoints.
type RecordsHandler struct {
	svc    *recordsvc.Service
	logger *zap.Logger
}

// NewRecordsHandler constructs the HTTP handler adapter.
func NewRecordsHandler(svc *recordsvc.Service, logger *zap.Logger) *RecordsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordsHandler{svc: svc, logger: logger}
}

// ListServices returns the active catalog for the selection form.
func (h *RecordsHandler) ListServices(c *gin.Context) {
	services, err := h.svc.Services(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing services", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load service catalog"})
		return
	}
	c.JSON(http.StatusOK, services)
}

// List returns the caller's active records.
func (h *RecordsHandler) List(c *gin.Context) {
	profile, _ := middleware.Profile(c)

	records, err := h.svc.List(c.Request.Context(), profile.UserID, models.RecordFilter{
		Month: c.Query("month"),
		Year:  c.Query("year"),
	})
	if err != nil {
		h.logger.Error("failed listing records", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load records"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// ListAll is the admin listing across all owners.
func (h *RecordsHandler) ListAll(c *gin.Context) {
	records, err := h.svc.ListAll(c.Request.Context(), models.RecordFilter{
		Month:           c.Query("month"),
		Year:            c.Query("year"),
		IncludeInactive: c.Query("include_inactive") == "true",
	})
	if err != nil {
		h.logger.Error("failed listing all records", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load records"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// Create validates and persists a new record.
func (h *RecordsHandler) Create(c *gin.Context) {
	var input recordsvc.RecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("invalid record payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, _ := middleware.Profile(c)
	created, err := h.svc.Create(c.Request.Context(), profile.UserID, input)
	if err != nil {
		h.respondServiceError(c, err, "failed creating record")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Update replaces a record and its whole item set.
func (h *RecordsHandler) Update(c *gin.Context) {
	var input recordsvc.RecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("invalid record payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, _ := middleware.Profile(c)
	if err := h.svc.Update(c.Request.Context(), profile, c.Param("id"), input); err != nil {
		h.respondServiceError(c, err, "failed updating record")
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete soft-deletes a record.
func (h *RecordsHandler) Delete(c *gin.Context) {
	profile, _ := middleware.Profile(c)
	if err := h.svc.Delete(c.Request.Context(), profile, c.Param("id")); err != nil {
		h.respondServiceError(c, err, "failed deleting record")
		return
	}
	c.Status(http.StatusNoContent)
}

// PreviewScore recomputes a single item's score for the editing form.
func (h *RecordsHandler) PreviewScore(c *gin.Context) {
	var req struct {
		ServiceID   string  `json:"service_id" binding:"required"`
		FiscalCount int     `json:"fiscal_count" binding:"required"`
		Quantity    float64 `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	score, err := h.svc.PreviewScore(c.Request.Context(), req.ServiceID, req.FiscalCount, req.Quantity)
	if err != nil {
		h.respondServiceError(c, err, "failed computing score preview")
		return
	}

	c.JSON(http.StatusOK, gin.H{"computed_score": score})
}

func (h *RecordsHandler) respondServiceError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, recordsvc.ErrInvalidPeriod),
		errors.Is(err, recordsvc.ErrEmptyItems),
		errors.Is(err, recordsvc.ErrInvalidItem),
		errors.Is(err, recordsvc.ErrUnknownService):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, recordsvc.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "record belongs to another user"})
	case errors.Is(err, repo.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	default:
		h.logger.Error(logMsg, zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
	}
}
