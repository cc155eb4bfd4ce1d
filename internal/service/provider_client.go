package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/es2/countrysync/internal/domain"
	"github.com/go-resty/resty/v2"
)

// ProviderClient resolves providers through the MDM provider directory.
type ProviderClient struct {
	client  *resty.Client
	baseURL string
}

// NewProviderClient creates a client for <baseURL>/providers/<id>.
// Parameters:
//   - baseURL: MDM API base, e.g. http://localhost:8080/mdm/api.
//   - timeout: per-request timeout; zero uses the default.
// Returns:
//   - *ProviderClient: initialized client.
func NewProviderClient(baseURL string, timeout time.Duration) *ProviderClient {
	return &ProviderClient{client: newHTTPClient(timeout), baseURL: baseURL}
}

// GetProvider fetches one provider. A non-2xx status or an empty body is an error.
func (c *ProviderClient) GetProvider(ctx context.Context, id uint) (*domain.ProviderPayload, error) {
	url := joinURL(c.baseURL, fmt.Sprintf("/providers/%d", id))
	resp, err := c.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("provider lookup: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, newStatusError("provider lookup", resp)
	}
	if len(resp.Body()) == 0 {
		return nil, errors.New("provider lookup: empty response body")
	}

	var p domain.ProviderPayload
	if err := json.Unmarshal(resp.Body(), &p); err != nil {
		return nil, fmt.Errorf("provider lookup: decode response: %w", err)
	}
	return &p, nil
}
