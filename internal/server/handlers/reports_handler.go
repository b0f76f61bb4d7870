package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	repo "github.com/dmarinho2/prt-fiscal/internal/repository/supabase"
	"github.com/dmarinho2/prt-fiscal/internal/server/middleware"
	reportsvc "github.com/dmarinho2/prt-fiscal/internal/service/reports"
)

// ReportsHandler exposes PDF generation and the export archive.
type ReportsHandler struct {
	svc    *reportsvc.Service
	logger *zap.Logger
}

// NewReportsHandler constructs the HTTP handler adapter.
func NewReportsHandler(svc *reportsvc.Service, logger *zap.Logger) *ReportsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportsHandler{svc: svc, logger: logger}
}

// Download composes the record's report and streams it as an attachment.
func (h *ReportsHandler) Download(c *gin.Context) {
	profile, _ := middleware.Profile(c)
	artifact, err := h.svc.Generate(c.Request.Context(), profile, c.Param("id"))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		if errors.Is(err, reportsvc.ErrNotOwner) {
			c.JSON(http.StatusForbidden, gin.H{"error": "record belongs to another user"})
			return
		}
		h.logger.Error("failed generating report", zap.String("record_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to generate report"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	c.Data(http.StatusOK, "application/pdf", artifact.Content)
}

// BatchExport generates one report per active record of the period.
// The period path argument uses MM-YYYY to keep the URL slash-free.
func (h *ReportsHandler) BatchExport(c *gin.Context) {
	period := strings.Replace(c.Param("period"), "-", "/", 1)
	if len(period) != 7 || period[2] != '/' {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period, expected MM-YYYY"})
		return
	}

	generated, err := h.svc.GenerateForPeriod(c.Request.Context(), period)
	if err != nil {
		h.logger.Error("batch export failed", zap.String("period", period), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "batch export failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"period": period, "generated": generated})
}

// ListArchive returns the generation history.
func (h *ReportsHandler) ListArchive(c *gin.Context) {
	entries, err := h.svc.ListArchive(c.Request.Context(), c.Query("period"))
	if err != nil {
		h.logger.Error("failed listing export archive", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load export archive"})
		return
	}
	c.JSON(http.StatusOK, entries)
}
