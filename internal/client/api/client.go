// Package api is the agent-side client for the presence server's REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/freightdesk/presence/internal/common"
)

// PositionReport is the body of a position report. The carrier identity
// travels in the bearer token, not in the body.
type PositionReport struct {
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	ReportedAt   *time.Time `json:"reportedAt,omitempty"`
	Accuracy     *float64   `json:"accuracy,omitempty"`
	Speed        *float64   `json:"speed,omitempty"`
	Heading      *float64   `json:"heading,omitempty"`
	CarrierClass string     `json:"carrierClass,omitempty"`
}

// Client is the server surface the agent depends on.
type Client interface {
	Report(ctx context.Context, report PositionReport) error
	Status(ctx context.Context) (bool, error)
	SetStatus(ctx context.Context, online bool) error
	Ping(ctx context.Context) error
	Close() error
}

type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}
	defer resp.Body.Close()

	if err := c.mapStatus(resp); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// mapStatus converts non-2xx responses to the shared sentinel errors so
// callers can branch with errors.Is instead of inspecting status codes.
func (c *HTTPClient) mapStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var body struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Message == "" {
		body.Message = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", common.ErrorValidation, body.Message)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", common.ErrorUnauthorized, body.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrorNotFound, body.Message)
	default:
		return fmt.Errorf("%w: %s", common.ErrorUnavailable, body.Message)
	}
}

func (c *HTTPClient) Report(ctx context.Context, report PositionReport) error {
	return c.do(ctx, http.MethodPost, "/api/v1/presence/report", report, nil)
}

func (c *HTTPClient) Status(ctx context.Context) (bool, error) {
	var out struct {
		Online bool `json:"online"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/presence/status", nil, &out); err != nil {
		return false, err
	}
	return out.Online, nil
}

func (c *HTTPClient) SetStatus(ctx context.Context, online bool) error {
	body := struct {
		Online bool `json:"online"`
	}{Online: online}
	return c.do(ctx, http.MethodPut, "/api/v1/presence/status", body, nil)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
