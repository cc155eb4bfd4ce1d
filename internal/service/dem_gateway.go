package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/es2/countrysync/internal/domain"
	"github.com/es2/countrysync/internal/logger"
	"github.com/go-resty/resty/v2"
)

// CallbackPath is the MDM endpoint DEM posts transformed countries to.
const CallbackPath = "/countries/callback"

// DEMGateway is the MDM-side client for the DEM ingestion API.
type DEMGateway struct {
	client      *resty.Client
	baseURL     string
	callbackURL string
}

// NewDEMGateway creates a gateway.
// Parameters:
//   - demBaseURL: DEM API base, e.g. http://localhost:8081/dem/api.
//   - callbackBaseURL: externally reachable MDM base; CallbackPath is appended.
//   - timeout: per-request timeout; zero uses the default.
// Returns:
//   - *DEMGateway: initialized gateway.
func NewDEMGateway(demBaseURL, callbackBaseURL string, timeout time.Duration) *DEMGateway {
	return &DEMGateway{
		client:      newHTTPClient(timeout),
		baseURL:     demBaseURL,
		callbackURL: joinURL(callbackBaseURL, CallbackPath),
	}
}

// CallbackURL returns the sync URL sent with every ingestion request.
func (g *DEMGateway) CallbackURL() string {
	return g.callbackURL
}

// TriggerIngestion asks DEM to start an ingestion for providerID.
// Any transport failure or non-2xx answer is returned as an error.
func (g *DEMGateway) TriggerIngestion(ctx context.Context, providerID uint) (*domain.JobSummary, error) {
	req := domain.IngestionRequest{MDMProviderID: providerID, MDMSyncURL: g.callbackURL}
	logger.CtxInfo(ctx, "Requesting DEM ingestion for provider %d with sync URL %s", providerID, g.callbackURL)

	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(joinURL(g.baseURL, "/ingestion"))
	if err != nil {
		return nil, fmt.Errorf("contact DEM: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, newStatusError("trigger ingestion", resp)
	}
	return decodeSummary(resp.Body())
}

// GetJobStatus fetches one DEM job. A 404 from DEM wraps domain.ErrNotFound.
func (g *DEMGateway) GetJobStatus(ctx context.Context, jobID uint) (*domain.JobSummary, error) {
	resp, err := g.client.R().SetContext(ctx).Get(joinURL(g.baseURL, fmt.Sprintf("/ingestion/%d", jobID)))
	if err != nil {
		return nil, fmt.Errorf("contact DEM: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("DEM ingestion job %d: %w", jobID, domain.ErrNotFound)
	}
	if !resp.IsSuccess() {
		return nil, newStatusError("get job status", resp)
	}
	return decodeSummary(resp.Body())
}

// ListAllJobs returns every DEM job. Failures are logged and yield an empty list.
func (g *DEMGateway) ListAllJobs(ctx context.Context) []domain.JobSummary {
	jobs := []domain.JobSummary{}

	resp, err := g.client.R().SetContext(ctx).Get(joinURL(g.baseURL, "/ingestion"))
	if err != nil {
		logger.CtxError(ctx, "Failed to list DEM ingestion jobs: %v", err)
		return jobs
	}
	if !resp.IsSuccess() {
		logger.CtxError(ctx, "Failed to list DEM ingestion jobs: %v", newStatusError("list jobs", resp))
		return jobs
	}
	if err := json.Unmarshal(resp.Body(), &jobs); err != nil || jobs == nil {
		logger.CtxError(ctx, "Failed to decode DEM ingestion jobs: %v", err)
		return []domain.JobSummary{}
	}
	logger.With(logger.Fields{logger.FieldCount: len(jobs)}).Info(ctx, "Listed DEM ingestion jobs")
	return jobs
}

func decodeSummary(body []byte) (*domain.JobSummary, error) {
	if len(body) == 0 {
		return nil, errors.New("DEM returned an empty body")
	}
	var summary domain.JobSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("decode DEM response: %w", err)
	}
	return &summary, nil
}
