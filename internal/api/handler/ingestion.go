package handler

import (
	"net/http"

	"github.com/es2/countrysync/internal/domain"
	"github.com/es2/countrysync/internal/service"
	"github.com/gin-gonic/gin"
)

// IngestionHandler exposes the DEM ingestion API.
type IngestionHandler struct {
	ingest *service.IngestionService
}

// NewIngestionHandler creates a new ingestion handler.
// Parameters:
//   - ingest: orchestrator that owns the job queue.
// Returns:
//   - *IngestionHandler: initialized handler.
func NewIngestionHandler(ingest *service.IngestionService) *IngestionHandler {
	return &IngestionHandler{ingest: ingest}
}

// Submit handles POST /dem/api/ingestion.
// The job is persisted and queued; the response does not wait for the pipeline.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes 202 with the PENDING job summary).
func (h *IngestionHandler) Submit(c *gin.Context) {
	var req domain.IngestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	job, err := h.ingest.Submit(c.Request.Context(), req.MDMProviderID, req.MDMSyncURL)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, job.Summary())
}

// Get handles GET /dem/api/ingestion/:id.
func (h *IngestionHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	job, err := h.ingest.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, job.Summary())
}

// List handles GET /dem/api/ingestion.
func (h *IngestionHandler) List(c *gin.Context) {
	jobs, err := h.ingest.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]domain.JobSummary, 0, len(jobs))
	for i := range jobs {
		out = append(out, jobs[i].Summary())
	}
	c.JSON(http.StatusOK, out)
}
