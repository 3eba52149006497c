package midtrans

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// Client is a minimal HTTP client for the Midtrans Snap API. The storefront
// only needs two operations: create a payment page for an order and poll the
// settlement status of a reference.
type Client struct {
	httpClient *http.Client
	baseURL    string
	serverKey  string
	debug      bool
}

// Config holds Midtrans credentials.
type Config struct {
	BaseURL   string
	ServerKey string
}

// NewClient constructs a new Midtrans client with sane defaults.
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    cfg.BaseURL,
		serverKey:  cfg.ServerKey,
		debug:      os.Getenv("ENV") == "development",
	}
}

// authorization returns the Basic auth header value per Midtrans convention:
// base64(serverKey + ":").
func (c *Client) authorization() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.serverKey+":"))
}

// CreateTransaction creates a Snap payment page for an order reference and
// returns the token and redirect URL the buyer must be sent to.
func (c *Client) CreateTransaction(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error) {
	var resp ChargeResponse
	if err := c.doRequest(ctx, http.MethodPost, "/snap/v1/transactions", req, &resp); err != nil {
		return nil, err
	}
	if resp.RedirectURL == "" {
		return nil, fmt.Errorf("midtrans: charge for %s returned no redirect URL", req.TransactionDetails.OrderID)
	}
	return &resp, nil
}

// GetStatus returns the current transaction status for an order reference.
// The call is read-only and safe to repeat.
func (c *Client) GetStatus(ctx context.Context, ref string) (*StatusResponse, error) {
	var resp StatusResponse
	path := fmt.Sprintf("/v2/%s/status", ref)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// doRequest performs an HTTP request against the Midtrans API and decodes the
// JSON response into out.
func (c *Client) doRequest(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("midtrans: marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("midtrans: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.authorization())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("midtrans: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("midtrans: read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			RawJSON("body", raw).
			Msg("midtrans response")
	}

	if resp.StatusCode >= 300 {
		var apiErr ErrorResponse
		if err := json.Unmarshal(raw, &apiErr); err == nil && len(apiErr.ErrorMessages) > 0 {
			return fmt.Errorf("midtrans: %s %s: %s", method, path, apiErr.ErrorMessages[0])
		}
		return fmt.Errorf("midtrans: %s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("midtrans: decode response: %w", err)
		}
	}
	return nil
}
