package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// GatewayTransferer implements Transferer against a payout gateway's REST API.
type GatewayTransferer struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewGatewayTransferer creates a transferer with optional proxy support.
func NewGatewayTransferer(baseURL, apiKey, proxyURL string) *GatewayTransferer {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &GatewayTransferer{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (g *GatewayTransferer) Name() string { return "gateway" }

type payoutRequest struct {
	Reference   string `json:"reference"`
	Destination string `json:"destination"`
	Amount      uint64 `json:"amount"`
}

// Transfer submits a payout request. Any non-2xx response is a failure.
func (g *GatewayTransferer) Transfer(reference, destination string, amount uint64) error {
	endpoint := fmt.Sprintf("%s/api/v1/payouts", g.BaseURL)
	body, err := json.Marshal(payoutRequest{
		Reference:   reference,
		Destination: destination,
		Amount:      amount,
	})
	if err != nil {
		return fmt.Errorf("marshal payout: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build payout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.APIKey != "" {
		req.Header.Set("X-API-Key", g.APIKey)
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("payout request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("payout rejected: status %d: %s", resp.StatusCode, snippet)
	}
	return nil
}
