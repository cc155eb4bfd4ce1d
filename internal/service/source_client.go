package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// SourceClient downloads the full country list from an external provider API.
type SourceClient struct {
	client *resty.Client
}

func NewSourceClient(timeout time.Duration) *SourceClient {
	return &SourceClient{client: newHTTPClient(timeout)}
}

// FetchAll returns the raw body of GET <apiBaseURL>/all.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - apiBaseURL: provider API base taken from the provider record.
// Returns:
//   - []byte: response body, never empty on success.
//   - error: non-nil on transport failure, non-2xx status or empty body.
func (c *SourceClient) FetchAll(ctx context.Context, apiBaseURL string) ([]byte, error) {
	resp, err := c.client.R().SetContext(ctx).Get(joinURL(apiBaseURL, "/all"))
	if err != nil {
		return nil, fmt.Errorf("fetch external data: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, newStatusError("fetch external data", resp)
	}
	if len(resp.Body()) == 0 {
		return nil, errors.New("fetch external data: empty response body")
	}
	return resp.Body(), nil
}
