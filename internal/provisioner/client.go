// internal/provisioner/client.go
//
// Typed client for the provisioner-facing API.
//
// Context
// -------
// A provisioner process polls the pending queue and reports each outcome
// back.  Client wraps those two calls on top of resty and unwraps the
// `{success, data, error}` envelope, so callers deal in website.Record
// values and Go errors only.
//
// Notes
// -----
//   - Transport failures are retried by resty; API errors (4xx/5xx with an
//     envelope) are returned as *APIError and never retried.
//   - Oxford commas, two spaces after periods.
package provisioner

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yanizio/cloudself/internal/website"
)

const (
	pendingPath = "/api/provisioner/websites/pending"
	statusPath  = "/api/provisioner/websites/{id}/status"
)

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provisioner api: %d %s", e.StatusCode, e.Message)
}

// NotFound reports whether the website no longer exists.
func (e *APIError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type statusBody struct {
	Status       website.Status `json:"status"`
	PodIPAddress string         `json:"podIpAddress,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
}

// Client is safe for concurrent use.
type Client struct {
	http *resty.Client
}

// NewClient targets baseURL (scheme and host, no trailing path).
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetRetryCount(2).
			SetRetryWaitTime(500 * time.Millisecond).
			SetRetryMaxWaitTime(2 * time.Second).
			SetHeader("Accept", "application/json"),
	}
}

// Pending fetches the backlog, oldest first.
func (c *Client) Pending(ctx context.Context) ([]website.Record, error) {
	var recs []website.Record
	resp, err := c.http.R().
		SetContext(ctx).
		Get(pendingPath)
	if err := decode(resp, err, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Provisioned reports a running deployment at podIP.
func (c *Client) Provisioned(ctx context.Context, id int64, podIP string) (*website.Record, error) {
	return c.updateStatus(ctx, id, statusBody{Status: website.StatusProvisioned, PodIPAddress: podIP})
}

// Failed reports a provisioning failure.
func (c *Client) Failed(ctx context.Context, id int64, reason string) (*website.Record, error) {
	return c.updateStatus(ctx, id, statusBody{Status: website.StatusFailed, ErrorMessage: reason})
}

func (c *Client) updateStatus(ctx context.Context, id int64, body statusBody) (*website.Record, error) {
	var rec website.Record
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Put(statusPath)
	if err := decode(resp, err, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// decode unwraps the envelope into dst or turns it into an error.
func decode(resp *resty.Response, err error, dst any) error {
	if err != nil {
		return fmt.Errorf("provisioner api: %w", err)
	}
	var env envelope
	if jerr := json.Unmarshal(resp.Body(), &env); jerr != nil {
		if resp.IsError() {
			return &APIError{StatusCode: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
		}
		return fmt.Errorf("provisioner api: decode: %w", jerr)
	}
	if resp.IsError() || !env.Success {
		msg := http.StatusText(resp.StatusCode())
		if env.Error != nil && env.Error.Message != "" {
			msg = env.Error.Message
		}
		return &APIError{StatusCode: resp.StatusCode(), Message: msg}
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return fmt.Errorf("provisioner api: decode data: %w", err)
	}
	return nil
}
