package handler

import (
	"context"
	"net/http"

	"github.com/es2/countrysync/internal/domain"
	"github.com/es2/countrysync/internal/logger"
	"github.com/gin-gonic/gin"
)

// IngestionGateway is the part of the DEM client the admin endpoints need.
type IngestionGateway interface {
	TriggerIngestion(ctx context.Context, providerID uint) (*domain.JobSummary, error)
	GetJobStatus(ctx context.Context, jobID uint) (*domain.JobSummary, error)
	ListAllJobs(ctx context.Context) []domain.JobSummary
}

// AdminHandler proxies ingestion control from MDM to DEM.
type AdminHandler struct {
	dem    IngestionGateway
	logger *logger.Logger
}

// NewAdminHandler creates a new admin handler.
// Parameters:
//   - dem: DEM gateway.
//   - log: logger instance; nil uses the default logger.
// Returns:
//   - *AdminHandler: initialized handler.
func NewAdminHandler(dem IngestionGateway, log *logger.Logger) *AdminHandler {
	if log == nil {
		log = logger.GetDefault()
	}
	return &AdminHandler{dem: dem, logger: log}
}

// log returns the request-scoped logger when the request carries one.
func (h *AdminHandler) log(c *gin.Context) *logger.Logger {
	if l := logger.FromContext(c.Request.Context()); l != logger.GetDefault() {
		return l
	}
	return h.logger
}

// TriggerIngestion handles POST /mdm/api/admin/ingest/provider/:providerId.
// DEM failures come back as 500 with the error text.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes the DEM job summary).
func (h *AdminHandler) TriggerIngestion(c *gin.Context) {
	providerID, ok := pathID(c, "providerId")
	if !ok {
		return
	}
	ctx := logger.WithField(c.Request.Context(), logger.FieldProviderID, providerID)

	summary, err := h.dem.TriggerIngestion(ctx, providerID)
	if err != nil {
		h.log(c).WithError(err).Errorf("Failed to trigger ingestion for provider %d", providerID)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	logger.CtxInfo(ctx, "DEM accepted ingestion job %d", summary.ID)
	c.JSON(http.StatusOK, summary)
}

// JobStatus handles GET /mdm/api/admin/ingest/status/:demJobId.
func (h *AdminHandler) JobStatus(c *gin.Context) {
	jobID, ok := pathID(c, "demJobId")
	if !ok {
		return
	}
	summary, err := h.dem.GetJobStatus(c.Request.Context(), jobID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// AllJobs handles GET /mdm/api/admin/ingest/status/all. DEM being unreachable yields [].
func (h *AdminHandler) AllJobs(c *gin.Context) {
	c.JSON(http.StatusOK, h.dem.ListAllJobs(c.Request.Context()))
}
