// Package payment is an outbound adapter for the payment capture service.
// The engine only calls it from the auto-renewal job; user-initiated
// payments arrive as completed signals through the HTTP layer.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Gateway captures payments over HTTP.
type Gateway struct {
	baseURL string
	client  *http.Client
}

// NewGateway returns a Gateway talking to the payment service at baseURL.
func NewGateway(baseURL string) *Gateway {
	return &Gateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type captureRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method"`
}

type captureResponse struct {
	PaymentID string `json:"payment_id"`
}

// Capture charges amountCents via the given method and returns the
// gateway's payment id. Any non-200 response is a capture failure.
func (g *Gateway) Capture(ctx context.Context, amountCents int64, method string) (string, error) {
	body, err := json.Marshal(captureRequest{AmountCents: amountCents, Method: method})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/capture", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("capture request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("capture returned status %d", resp.StatusCode)
	}
	var out captureResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode capture response: %w", err)
	}
	return out.PaymentID, nil
}
