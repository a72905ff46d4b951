package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrMissingSecretKey indicates the client was configured without credentials.
var ErrMissingSecretKey = errors.New("stripe: secret key is required")

const defaultBaseURL = "https://api.stripe.com/v1"

// StripeOptions configures the Stripe client.
type StripeOptions struct {
	SecretKey  string
	BaseURL    string
	HTTPClient *http.Client
}

// StripeClient creates payment intents over Stripe's REST API.
type StripeClient struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewStripe(opts StripeOptions) (*StripeClient, error) {
	if opts.SecretKey == "" {
		return nil, ErrMissingSecretKey
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &StripeClient{
		secretKey:  opts.SecretKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}, nil
}

type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Error        struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateIntent calls POST /payment_intents. Stripe takes form-encoded
// bodies and amounts in the currency's smallest unit.
func (c *StripeClient) CreateIntent(ctx context.Context, amountCents int64, currency string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", currency)
	form.Set("payment_method_types[]", "card")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("stripe: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stripe: create intent: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("stripe: read response: %w", err)
	}

	var parsed intentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("stripe: parse response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stripe: create intent failed (status %d): %s", resp.StatusCode, parsed.Error.Message)
	}
	if parsed.ClientSecret == "" {
		return nil, errors.New("stripe: response missing client secret")
	}
	return &Intent{ID: parsed.ID, ClientSecret: parsed.ClientSecret}, nil
}
