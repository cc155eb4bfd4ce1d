package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/es2/countrysync/internal/logger"
	"github.com/go-resty/resty/v2"
)

const defaultHTTPTimeout = 60 * time.Second

// maxErrorBody caps how much of an upstream response body ends up in job messages.
const maxErrorBody = 512

// newHTTPClient returns a JSON resty client that forwards the request id found on the call context.
func newHTTPClient(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if id := logger.GetRequestID(req.Context()); id != "" {
			req.SetHeader(logger.RequestIDHeader, id)
		}
		return nil
	})
	return client
}

// StatusError is returned when an upstream answers with a non-2xx status.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

func newStatusError(op string, resp *resty.Response) *StatusError {
	body := strings.TrimSpace(resp.String())
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "..."
	}
	return &StatusError{Op: op, StatusCode: resp.StatusCode(), Body: body}
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}
