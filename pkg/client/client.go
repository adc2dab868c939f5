package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/fragen-dev/fragen/pkg/api"
	"github.com/fragen-dev/fragen/pkg/auth"
	"github.com/fragen-dev/fragen/pkg/debug"
	"github.com/fragen-dev/fragen/pkg/observability"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client performs HTTP requests against an OpenAI-compatible API.
// Resource packages embed or hold a Client and delegate their calls to it.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	tokens       auth.TokenProvider
	organization string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client. The client's
// timeout applies to non-streaming requests only.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithOrganization sets the OpenAI-Organization header on every request.
func WithOrganization(org string) Option {
	return func(c *Client) {
		c.organization = org
	}
}

// WithTimeout sets the timeout for non-streaming requests.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a Client that authenticates with the given token provider.
func New(tokens auth.TokenProvider, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		baseURL: defaultBaseURL,
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestOption mutates an outgoing HTTP request before it is sent.
type RequestOption func(*http.Request)

// WithHeader sets an extra header on a single request.
func WithHeader(key, value string) RequestOption {
	return func(req *http.Request) {
		req.Header.Set(key, value)
	}
}

// Get performs a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, "", out, opts)
}

// Post marshals in as JSON, performs a POST request, and decodes the
// response into out. A nil in sends an empty body.
func (c *Client) Post(ctx context.Context, path string, in, out any, opts ...RequestOption) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		body = bytes.NewReader(data)
	}
	return c.doJSON(ctx, http.MethodPost, path, body, "application/json", out, opts)
}

// GetRaw performs a GET request and returns the raw response body, for
// endpoints that serve file content rather than JSON.
func (c *Client) GetRaw(ctx context.Context, path string, opts ...RequestOption) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "", opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.ObserveRequest(http.MethodGet, path, "error", time.Since(start))
		return nil, MapNetworkError(err)
	}
	defer resp.Body.Close()

	observability.ObserveRequest(http.MethodGet, path, fmt.Sprint(resp.StatusCode), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ErrorFromResponse(resp)
	}
	return io.ReadAll(resp.Body)
}

// Delete performs a DELETE request and decodes the JSON response into out.
func (c *Client) Delete(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, "", out, opts)
}

// PostMultipart performs a POST request with a multipart/form-data body.
// The build callback writes the form fields and file parts.
func (c *Client) PostMultipart(ctx context.Context, path string, build func(w *multipart.Writer) error, out any, opts ...RequestOption) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := build(w); err != nil {
		return fmt.Errorf("building multipart body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing multipart writer: %w", err)
	}
	return c.doJSON(ctx, http.MethodPost, path, &buf, w.FormDataContentType(), out, opts)
}

// PostStream marshals in as JSON, performs a POST request expecting a
// text/event-stream response, and returns an SSEReader over the body.
// The caller owns the reader and must close it.
//
// The HTTP client timeout is not applied here because a stream can
// legitimately last longer than any fixed timeout. Lifecycle control
// relies on context cancellation instead.
func (c *Client) PostStream(ctx context.Context, path string, in any, opts ...RequestOption) (*SSEReader, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshaling request body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json", opts)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	streamClient := &http.Client{
		Transport: c.httpClient.Transport,
	}

	start := time.Now()
	resp, err := streamClient.Do(req)
	if err != nil {
		observability.ObserveRequest(req.Method, path, "error", time.Since(start))
		return nil, MapNetworkError(err)
	}

	observability.ObserveRequest(req.Method, path, fmt.Sprint(resp.StatusCode), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, ErrorFromResponse(resp)
	}

	return NewSSEReader(resp.Body), nil
}

// doJSON sends a request and decodes a JSON response into out. A nil out
// discards the response body.
func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, contentType string, out any, opts []RequestOption) error {
	req, err := c.newRequest(ctx, method, path, body, contentType, opts)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.ObserveRequest(method, path, "error", time.Since(start))
		return MapNetworkError(err)
	}
	defer resp.Body.Close()

	observability.ObserveRequest(method, path, fmt.Sprint(resp.StatusCode), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ErrorFromResponse(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return api.NewServerError(fmt.Sprintf("failed to parse response: %s", err.Error()))
	}
	return nil
}

// newRequest builds an HTTP request with authentication and tracing headers.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string, opts []RequestOption) (*http.Request, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.organization != "" {
		req.Header.Set("OpenAI-Organization", c.organization)
	}
	if id, err := gonanoid.New(); err == nil {
		req.Header.Set("X-Request-Id", "req_"+id)
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetching auth token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	for _, opt := range opts {
		opt(req)
	}

	if debug.Enabled("client") {
		debug.Log("client", "sending request",
			"method", method,
			"url", url,
			"request_id", req.Header.Get("X-Request-Id"),
		)
	}

	return req, nil
}
