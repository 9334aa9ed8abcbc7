// Package predict wraps the prediction server's HTTP API: schema discovery,
// single-row prediction, and the free-text feature parser.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sportform/predictui/pkg/schema"
)

const defaultTimeout = 30 * time.Second

// Features maps field names to submitted values for a single prediction row.
type Features map[string]any

// Result is the prediction payload returned by the server. Every part is
// optional; renderers supply defaults for what is missing.
type Result struct {
	Prediction   any                `json:"prediction"`
	Proba        map[string]float64 `json:"proba,omitempty"`
	UsedFeatures []string           `json:"used_features,omitempty"`
	Message      string             `json:"message,omitempty"`
	ModelName    string             `json:"model_name,omitempty"`
}

// TextFeatures is the response of the text-to-features parser.
type TextFeatures struct {
	Features map[string]any `json:"features"`
	Message  string         `json:"message,omitempty"`
}

// APIError carries a non-success HTTP status together with the structured
// detail the server included, when there was one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Detail) != "" {
		return e.Detail
	}
	return fmt.Sprintf("prediction server returned status %d", e.StatusCode)
}

// Option customises the client configuration.
type Option func(*Client)

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout bounds each request. Zero disables the per-request deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// Client talks to the prediction server. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient constructs a Client for the given base URL.
func NewClient(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Schema fetches and validates the field schema.
func (c *Client) Schema(ctx context.Context) (schema.Schema, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/schema", nil)
	if err != nil {
		return schema.Schema{}, err
	}
	parsed, err := schema.Parse(raw)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("predict: %w", err)
	}
	return parsed, nil
}

// Predict submits a feature row and returns the model's answer.
func (c *Client) Predict(ctx context.Context, features Features) (*Result, error) {
	body := struct {
		Features Features `json:"features"`
	}{Features: features}

	raw, err := c.do(ctx, http.MethodPost, "/api/predict", body)
	if err != nil {
		return nil, err
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("predict: decode prediction: %w", err)
	}
	return &result, nil
}

// ParseText asks the server to turn a free-text description into features.
func (c *Client) ParseText(ctx context.Context, text string) (*TextFeatures, error) {
	body := struct {
		Text string `json:"text"`
	}{Text: text}

	raw, err := c.do(ctx, http.MethodPost, "/api/parse_text", body)
	if err != nil {
		return nil, err
	}

	var parsed TextFeatures
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("predict: decode parsed features: %w", err)
	}
	return &parsed, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	reqCtx := ctx
	var cancel context.CancelFunc
	if c.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("predict: encode request: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("predict: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("predict: %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("predict: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Detail:     extractDetail(raw),
		}
	}
	return raw, nil
}

// extractDetail pulls the structured error message out of a failure body.
// Bodies that do not carry a detail field produce an empty string so APIError
// falls back to its generic status message.
func extractDetail(raw []byte) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Detail)
}
