// Package fixtures creates scenario data through the Stocktake REST API.
package fixtures

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"
)

// Endpoints of the Stocktake API used for fixtures.
const (
	LoginEndpoint    = "/auth/login"
	TypeEndpoint     = "/items/product-types"
	UnitEndpoint     = "/items/product-units"
	GroupEndpoint    = "/items/product-groups"
	SupplierEndpoint = "/items/suppliers"
	ProductEndpoint  = "/items/products"
	PurchaseEndpoint = "/items/purchases"
)

// DateLayout is the format of date values in payloads.
const DateLayout = "2006-01-02"

// APIError is a non-2xx response from the API.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Endpoint, e.StatusCode, strings.TrimSpace(e.Body))
}

// Client calls the API with a bearer token obtained by Login.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	logger  *slog.Logger
	rand    func(lo, hi int) int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client, e.g. with an httptest server's.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger responses are written to at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithToken skips Login.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// NewClient returns a client for the API at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  slog.Default(),
		rand:    func(lo, hi int) int { return lo + rand.IntN(hi-lo+1) },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the bearer token, empty before Login.
func (c *Client) Token() string { return c.token }

// Login exchanges credentials for a bearer token used by later calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.post(ctx, LoginEndpoint, map[string]string{"email": email, "password": password}, &resp); err != nil {
		return fmt.Errorf("failed to log in as %s: %w", email, err)
	}
	if resp.AccessToken == "" {
		return fmt.Errorf("failed to log in as %s: no access token returned", email)
	}
	c.token = resp.AccessToken
	return nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", endpoint, err)
	}

	c.logger.Info("Sending POST request", "endpoint", endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}
	c.logger.Debug("Response received", "endpoint", endpoint, "status", resp.StatusCode, "body", string(raw))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) suffix() int { return c.rand(100000, 999999) }
