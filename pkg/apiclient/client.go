package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jabirmahmud0/techhive-client/pkg/config"
	pkgerrors "github.com/jabirmahmud0/techhive-client/pkg/errors"
	"github.com/jabirmahmud0/techhive-client/pkg/logger"
	"github.com/jabirmahmud0/techhive-client/pkg/metrics"
)

const errorBodyReadLimit int64 = 4096

var (
	errBaseURLRequired = errors.New("api base url is required")
	errLoggerRequired  = errors.New("api logger is required")
)

// TokenProvider supplies the bearer credential for authenticated calls.
// An empty string means no active session.
type TokenProvider interface {
	Token() string
}

// Client is the typed HTTP transport for the storefront backend. It owns
// auth header injection, response decoding, error classification, and
// per-operation logging and metrics.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logger.Logger
	metrics    *metrics.RequestMetrics
	tokens     TokenProvider
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured backend base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithMetrics attaches per-operation request metrics.
func WithMetrics(m *metrics.RequestMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds the backend client from configuration.
func NewClient(cfg config.APIConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSpace(cfg.BaseURL),
		logger:     logg,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.baseURL == "" {
		return nil, errBaseURLRequired
	}

	return client, nil
}

// SetTokenProvider wires the session container in after construction; the
// session itself needs the client for its login calls.
func (c *Client) SetTokenProvider(tokens TokenProvider) {
	c.tokens = tokens
}

// Call describes one backend request.
type Call struct {
	Operation string
	Method    string
	Path      string
	Body      any
	Out       any
	Auth      bool
}

// Get issues an unauthenticated GET.
func (c *Client) Get(ctx context.Context, operation, path string, out any) error {
	return c.Do(ctx, Call{Operation: operation, Method: http.MethodGet, Path: path, Out: out})
}

// Do executes the call and classifies failures: transport problems map to
// the network code, non-2xx statuses carry the server's message verbatim,
// and undecodable success bodies map to the parse code.
func (c *Client) Do(ctx context.Context, call Call) (err error) {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "api client not configured")
	}

	start := time.Now()
	defer func() {
		c.metrics.ObserveDuration(call.Operation, time.Since(start))
		if err != nil {
			c.metrics.IncFailure(call.Operation, string(pkgerrors.As(err).Code()))
			return
		}
		c.metrics.IncSuccess(call.Operation)
	}()

	var token string
	if call.Auth {
		if c.tokens != nil {
			token = c.tokens.Token()
		}
		if token == "" {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "Please log in first")
		}
	}

	var bodyReader io.Reader
	if call.Body != nil {
		payload, marshalErr := json.Marshal(call.Body)
		if marshalErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, marshalErr, "marshal request body")
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, reqErr := http.NewRequestWithContext(ctx, call.Method, c.buildURL(call.Path), bodyReader)
	if reqErr != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, reqErr, "build request")
	}
	if call.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		c.logger.Warn(c.logger.WithOperation(ctx, call.Operation), "backend request failed in transit")
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, doErr, "request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.serverError(ctx, call, resp)
	}

	if call.Out != nil {
		if decodeErr := json.NewDecoder(resp.Body).Decode(call.Out); decodeErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeParse, decodeErr, fmt.Sprintf("decode %s response", call.Operation))
		}
	}

	return nil
}

// serverError maps a non-2xx response onto the domain error taxonomy,
// preserving the backend's message payload when one is present.
func (c *Client) serverError(ctx context.Context, call Call, resp *http.Response) error {
	code := pkgerrors.CodeForStatus(resp.StatusCode)

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	message := extractMessage(raw)
	if message == "" {
		message = pkgerrors.MetadataFor(code).PublicMessage
	}

	ctx = c.logger.WithFields(ctx, map[string]any{
		"operation": call.Operation,
		"status":    resp.StatusCode,
	})
	c.logger.Warn(ctx, "backend reported failure")

	return pkgerrors.New(code, message).WithDetails(map[string]any{"status": resp.StatusCode})
}

func extractMessage(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}
