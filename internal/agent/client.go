// agent/internal/agent/client.go
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pharmacy-refill-dispatch/internal/models"
)

// ClaimedRequest is a refill request as it comes off the wire. CreatedAt
// stays a raw string; the label renderer owns timestamp parsing and its
// malformed-input fallback.
type ClaimedRequest struct {
	ID          string `json:"id"`
	RxNumber    string `json:"rx_number"`
	StoreID     string `json:"store_id"`
	PatientName string `json:"patient_name"`
	CreatedAt   string `json:"created_at"`
}

// Client talks to the dispatch server. Every call is a single bounded
// request/response exchange.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// ClaimPending fetches and claims the store's pending requests. The server
// transitions them to printing as a side effect of this call.
func (c *Client) ClaimPending(ctx context.Context, storeID string) ([]ClaimedRequest, error) {
	url := fmt.Sprintf("%s/api/v1/refills/pending/%s", c.BaseURL, storeID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("claim request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("claim request failed: server returned %s", resp.Status)
	}

	var body struct {
		Requests []ClaimedRequest `json:"requests"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("claim response decode failed: %w", err)
	}
	return body.Requests, nil
}

// ReportPrinted confirms a successful print.
func (c *Client) ReportPrinted(ctx context.Context, requestID string) error {
	return c.post(ctx, fmt.Sprintf("%s/api/v1/refills/%s/printed", c.BaseURL, requestID))
}

// ReportPrintFailed reports a failed print so the server re-queues the
// request.
func (c *Client) ReportPrintFailed(ctx context.Context, requestID string) error {
	return c.post(ctx, fmt.Sprintf("%s/api/v1/refills/%s/print-error", c.BaseURL, requestID))
}

// LookupStore fetches the directory entry for a store, including the
// printer address the agent may use instead of local configuration.
func (c *Client) LookupStore(ctx context.Context, storeID string) (*models.PharmacyStore, error) {
	url := fmt.Sprintf("%s/api/v1/stores/%s", c.BaseURL, storeID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("store lookup failed: server returned %s", resp.Status)
	}

	var store models.PharmacyStore
	if err := json.NewDecoder(resp.Body).Decode(&store); err != nil {
		return nil, fmt.Errorf("store lookup decode failed: %w", err)
	}
	return &store, nil
}

func (c *Client) post(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(nil))
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("report failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("report failed: server returned %s", resp.Status)
	}
	return nil
}
