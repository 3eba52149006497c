package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a minimal HTTP client for a transactional mail API
// (Resend-compatible). The storefront only sends password reset mail.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	from       string
}

// Config holds mail API credentials.
type Config struct {
	BaseURL string
	APIKey  string
	From    string
}

// NewClient constructs a new mail client.
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		from:       cfg.From,
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendPasswordReset mails a reset link to the given address.
func (c *Client) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	body := sendRequest{
		From:    c.from,
		To:      []string{to},
		Subject: "Reset password KanalKids",
		HTML: fmt.Sprintf(
			`<p>Kami menerima permintaan reset password untuk akun Anda.</p>`+
				`<p><a href="%s">Klik di sini untuk membuat password baru</a>. Tautan berlaku selama 1 jam.</p>`+
				`<p>Abaikan email ini jika Anda tidak meminta reset password.</p>`,
			resetURL,
		),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("mailer: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("mailer: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mailer: unexpected status %d: %s", resp.StatusCode, raw)
	}
	return nil
}
