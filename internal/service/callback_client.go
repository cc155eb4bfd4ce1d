package service

import (
	"context"
	"fmt"
	"time"

	"github.com/es2/countrysync/internal/domain"
	"github.com/go-resty/resty/v2"
)

// CallbackClient delivers transformed countries to the sync URL given at submit time.
type CallbackClient struct {
	client *resty.Client
}

func NewCallbackClient(timeout time.Duration) *CallbackClient {
	return &CallbackClient{client: newHTTPClient(timeout)}
}

// Send POSTs the list as JSON. Only a 2xx answer counts as delivered.
func (c *CallbackClient) Send(ctx context.Context, url string, countries []domain.CountryPayload) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(countries).
		Post(url)
	if err != nil {
		return fmt.Errorf("callback: %w", err)
	}
	if !resp.IsSuccess() {
		return newStatusError("callback", resp)
	}
	return nil
}
