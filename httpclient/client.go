package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/studyhub/logger"
	"github.com/kbukum/studyhub/observability"
)

// HeaderRequestID carries the logical call identifier.
const HeaderRequestID = "X-Request-ID"

// Client executes single HTTP attempts against one backend origin.
// Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	config     Config
	log        *logger.Logger
	tracer     trace.Tracer
	metrics    *observability.ClientMetrics
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.httpClient.Transport = rt
		}
	}
}

// WithCookieJar sets the jar holding ambient session cookies.
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) { c.httpClient.Jar = jar }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l.WithComponent("httpclient")
		}
	}
}

// WithTracerProvider sets the tracer provider used for request spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracer = observability.Tracer(tp) }
}

// WithMetrics sets the instruments request attempts are recorded on.
func WithMetrics(m *observability.ClientMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a new HTTP client with the given configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		httpClient: &http.Client{
			// attempts are bounded by their context, not a client-wide timeout
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
		config: cfg,
		log:    logger.Nop(),
		tracer: observability.Tracer(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.config
}

// Do executes one attempt of req. On failure the error is always *Error;
// the response is also returned when one was received.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	resp, err := c.do(ctx, req)
	if err != nil {
		return resp, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, req Request) (*Response, *Error) {
	timeout := c.config.Timeout
	if req.Upload {
		timeout = c.config.UploadTimeout
	}

	requestID := req.Headers[HeaderRequestID]
	if requestID == "" {
		requestID = observability.RequestIDFromContext(ctx)
	}

	ctx, span := c.tracer.Start(ctx, observability.SpanHTTPRequest,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(observability.AttrHTTPMethod, req.Method),
			attribute.String(observability.AttrHTTPPath, req.Path),
			attribute.String(observability.AttrRequestID, requestID),
		),
	)
	defer span.End()

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	resp, apiErr := c.execute(attemptCtx, req, requestID)
	elapsed := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	outcome := "ok"
	if apiErr != nil {
		outcome = apiErr.Kind.String()
		status = apiErr.Status
		span.SetAttributes(attribute.String(observability.AttrErrorKind, outcome))
		span.SetStatus(codes.Error, apiErr.Message)
	}
	if status > 0 {
		span.SetAttributes(attribute.Int(observability.AttrHTTPStatus, status))
	}
	c.metrics.RecordRequest(ctx, req.Method, outcome, status, elapsed)

	c.log.Debug("request completed", logger.Fields(
		logger.FieldMethod, req.Method,
		logger.FieldPath, req.Path,
		logger.FieldStatus, status,
		logger.FieldKind, outcome,
		logger.FieldRequestID, requestID,
		logger.FieldDuration, elapsed.Milliseconds(),
	))

	return resp, apiErr
}

// execute builds and sends the HTTP request and classifies the outcome.
func (c *Client) execute(ctx context.Context, req Request, requestID string) (*Response, *Error) {
	httpReq, apiErr := c.buildRequest(ctx, req, requestID)
	if apiErr != nil {
		return nil, apiErr
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewTimeoutError(err)
		}
		return nil, NewNetworkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewTimeoutError(err)
		}
		return nil, NewNetworkError(fmt.Errorf("read response body: %w", err))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}

	if classErr := Classify(resp.StatusCode, body); classErr != nil {
		return result, classErr
	}
	return result, nil
}

// buildRequest constructs an *http.Request from the client config and request.
func (c *Client) buildRequest(ctx context.Context, req Request, requestID string) (*http.Request, *Error) {
	target := c.resolveURL(req.Path)
	if req.RawQuery != "" {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + req.RawQuery
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewInvalidError(fmt.Sprintf("encode body: %v", err), err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, NewInvalidError(fmt.Sprintf("create request: %v", err), err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}

	// Apply default headers
	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}

	// Apply request-specific headers (override defaults)
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if requestID != "" {
		httpReq.Header.Set(HeaderRequestID, requestID)
	}

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	req.Auth.apply(httpReq)

	return httpReq, nil
}

func (c *Client) resolveURL(path string) string {
	if c.config.BaseURL == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// encodeBody converts a body value into an io.Reader and content type.
// Multipart bodies carry their boundary content type; raw readers and
// byte slices carry none.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case *MultipartBody:
		return v.encode()
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
