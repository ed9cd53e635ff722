package gocardless

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"ddsync/internal/platform/config"
)

// ErrUnavailable wraps any transport failure or non-2xx response from the
// provider. Callers treat it as retryable.
var ErrUnavailable = errors.New("provider unavailable")

const apiVersion = "2015-07-06"

// Client talks to the GoCardless HTTP API. One client per processor (live or
// sandbox).
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(cfg config.ProcessorConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.APIToken,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) GetPayment(ctx context.Context, id string) (*Payment, error) {
	var envelope struct {
		Payments *Payment `json:"payments"`
	}
	if err := c.do(ctx, http.MethodGet, "/payments/"+id, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Payments, nil
}

func (c *Client) GetSubscription(ctx context.Context, id string) (*Subscription, error) {
	var envelope struct {
		Subscriptions *Subscription `json:"subscriptions"`
	}
	if err := c.do(ctx, http.MethodGet, "/subscriptions/"+id, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Subscriptions, nil
}

func (c *Client) CreateRedirectFlow(ctx context.Context, params *RedirectFlowParams) (*RedirectFlow, error) {
	body := map[string]interface{}{"redirect_flows": params}
	var envelope struct {
		RedirectFlows *RedirectFlow `json:"redirect_flows"`
	}
	if err := c.do(ctx, http.MethodPost, "/redirect_flows", body, &envelope); err != nil {
		return nil, err
	}
	return envelope.RedirectFlows, nil
}

func (c *Client) CompleteRedirectFlow(ctx context.Context, flowID, sessionToken string) (*RedirectFlow, error) {
	body := map[string]interface{}{
		"data": map[string]string{"session_token": sessionToken},
	}
	var envelope struct {
		RedirectFlows *RedirectFlow `json:"redirect_flows"`
	}
	path := "/redirect_flows/" + flowID + "/actions/complete"
	if err := c.do(ctx, http.MethodPost, path, body, &envelope); err != nil {
		return nil, err
	}
	return envelope.RedirectFlows, nil
}

func (c *Client) CreateSubscription(ctx context.Context, params *SubscriptionParams) (*Subscription, error) {
	body := map[string]interface{}{"subscriptions": params}
	var envelope struct {
		Subscriptions *Subscription `json:"subscriptions"`
	}
	if err := c.do(ctx, http.MethodPost, "/subscriptions", body, &envelope); err != nil {
		return nil, err
	}
	return envelope.Subscriptions, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("GoCardless-Version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s: HTTP %d", ErrUnavailable, method, path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
