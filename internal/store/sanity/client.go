package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultRetries    = 3
	defaultAPIVersion = "2025-10-17"
)

// Config holds the Sanity project settings. BaseURL overrides the project API host.
type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// Client represents a Sanity HTTP API client
type Client struct {
	baseURL    string
	dataset    string
	token      string
	maxRetries int
	retryDelay time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// APIError is a non-success response from the API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// retryable reports whether the request may succeed when repeated
func (e *APIError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// NewClient creates a new Sanity API client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.api.sanity.io", cfg.ProjectID)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = defaultRetries
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/v" + strings.TrimPrefix(apiVersion, "v"),
		dataset:    cfg.Dataset,
		token:      cfg.Token,
		maxRetries: retries,
		retryDelay: time.Second,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
	Ms     int             `json:"ms"`
}

// Query runs a GROQ query and decodes its result into result.
// Parameters are referenced in the query as $name.
func (c *Client) Query(ctx context.Context, groq string, params map[string]interface{}, result interface{}) error {
	values := url.Values{}
	values.Set("query", groq)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode query parameter %s: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}

	var resp queryResponse
	path := "/data/query/" + c.dataset + "?" + values.Encode()
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return fmt.Errorf("failed to run query: %w", err)
	}

	if result != nil && len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("failed to parse query result: %w", err)
		}
	}
	return nil
}

// Mutation is one entry of a mutate request
type Mutation struct {
	Create interface{}     `json:"create,omitempty"`
	Patch  *PatchMutation  `json:"patch,omitempty"`
	Delete *DeleteMutation `json:"delete,omitempty"`
}

// PatchMutation sets fields on a document
type PatchMutation struct {
	ID  string                 `json:"id"`
	Set map[string]interface{} `json:"set"`
}

// DeleteMutation deletes a document by id or every document matching a query
type DeleteMutation struct {
	ID    string `json:"id,omitempty"`
	Query string `json:"query,omitempty"`
}

// MutationResult describes the effect of one mutation
type MutationResult struct {
	ID        string          `json:"id"`
	Operation string          `json:"operation"`
	Document  json.RawMessage `json:"document,omitempty"`
}

// MutateResponse is the response of a mutate request
type MutateResponse struct {
	TransactionID string           `json:"transactionId"`
	Results       []MutationResult `json:"results"`
}

// Mutate commits mutations in a single transaction
func (c *Client) Mutate(ctx context.Context, mutations ...Mutation) (*MutateResponse, error) {
	body := struct {
		Mutations []Mutation `json:"mutations"`
	}{Mutations: mutations}

	var resp MutateResponse
	path := "/data/mutate/" + c.dataset + "?returnIds=true&returnDocuments=true"
	if err := c.doRequest(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, fmt.Errorf("failed to commit mutations: %w", err)
	}
	return &resp, nil
}

// doRequest performs HTTP request with authentication and retries
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	endpoint := c.baseURL + path

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		err := c.doRequestOnce(ctx, method, endpoint, payload, result)
		if err == nil {
			return nil
		}

		lastErr = err
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.retryable() {
			return err
		}
		if ctx.Err() != nil {
			return err
		}

		c.logger.Warn("Request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", c.maxRetries),
			zap.Error(err))

		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(attempt)):
			}
		}
	}

	return fmt.Errorf("request failed after %d attempts: %w", c.maxRetries, lastErr)
}

// doRequestOnce performs a single HTTP request
func (c *Client) doRequestOnce(ctx context.Context, method, endpoint string, payload []byte, result interface{}) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")

	// Execute request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	// Read response
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Check status code
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	// Parse response
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}
