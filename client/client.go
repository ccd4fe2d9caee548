package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/publicsuffix"

	"github.com/kbukum/studyhub/auth"
	"github.com/kbukum/studyhub/credential"
	"github.com/kbukum/studyhub/httpclient"
	"github.com/kbukum/studyhub/logger"
	"github.com/kbukum/studyhub/model"
	"github.com/kbukum/studyhub/observability"
)

// Backend endpoints.
const (
	PathLogin    = "/api/v1/auth/login"
	PathRegister = "/api/v1/auth/register"
	PathRefresh  = "/api/v1/auth/refresh"
	PathMe       = "/api/v1/auth/me"
	PathSearch   = "/api/v1/search"
)

// Options configures a Client.
type Options struct {
	// HTTP configures the backend origin and timeouts.
	HTTP httpclient.Config
	// Store holds the access token. Defaults to an in-memory store.
	Store *credential.Store
	// Logger defaults to a no-op logger.
	Logger *logger.Logger
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
	// MeterProvider defaults to the global provider.
	MeterProvider metric.MeterProvider
	// Transport replaces the HTTP transport, mostly for tests.
	Transport http.RoundTripper
	// CookieJar holds the session cookie the refresh endpoint relies on.
	// Defaults to an in-memory jar. Use a credential.SessionJar to keep the
	// session across processes.
	CookieJar http.CookieJar
}

// sessionClearer is a jar that can forget its session, such as
// credential.SessionJar.
type sessionClearer interface {
	Clear(ctx context.Context)
}

// Client is the API access layer for one backend. Safe for concurrent use.
type Client struct {
	http  *httpclient.Client
	store *credential.Store
	auth  *auth.Coordinator
	jar   http.CookieJar
	log   *logger.Logger
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	store := opts.Store
	if store == nil {
		store = credential.NewStore(context.Background(), credential.NewMemoryBackend(), credential.WithLogger(log))
	}

	jar := opts.CookieJar
	if jar == nil {
		j, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("client: cookie jar: %w", err)
		}
		jar = j
	}

	metrics, err := observability.NewClientMetrics(observability.Meter(opts.MeterProvider))
	if err != nil {
		return nil, fmt.Errorf("client: metrics: %w", err)
	}

	hc, err := httpclient.New(opts.HTTP,
		httpclient.WithTransport(opts.Transport),
		httpclient.WithCookieJar(jar),
		httpclient.WithLogger(log),
		httpclient.WithTracerProvider(opts.TracerProvider),
		httpclient.WithMetrics(metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}

	c := &Client{
		http:  hc,
		store: store,
		jar:   jar,
		log:   log.WithComponent("client"),
	}
	c.auth = auth.NewCoordinator(store, c.exchangeSession,
		auth.WithLogger(log),
		auth.WithTracerProvider(opts.TracerProvider),
		auth.WithMetrics(metrics),
	)
	return c, nil
}

// Token returns the held access token.
func (c *Client) Token() (string, bool) {
	return c.store.Get()
}

// IsAuthenticated reports whether an access token is held.
func (c *Client) IsAuthenticated() bool {
	_, ok := c.store.Get()
	return ok
}

// call describes one logical request across its attempts.
type call struct {
	method   string
	path     string
	rawQuery string
	body     any
	upload   bool
	// retry is set once the call has been retried, or up front for calls
	// that must never trigger a refresh.
	retry bool
}

// execute runs c through the executor, refreshing and retrying once on a
// 401 to a call made with a held token.
func (c *Client) execute(ctx context.Context, cl call) (*httpclient.Response, *httpclient.Error) {
	ctx = withRequestID(ctx, cl.method+" "+cl.path)

	for {
		token, _ := c.store.Get()
		resp, err := c.http.Do(ctx, httpclient.Request{
			Method:   cl.method,
			Path:     cl.path,
			RawQuery: cl.rawQuery,
			Body:     cl.body,
			Auth:     httpclient.BearerAuth(token),
			Upload:   cl.upload,
		})
		if err == nil {
			return resp, nil
		}

		apiErr, _ := httpclient.AsError(err)
		if apiErr.Kind != httpclient.KindUnauthorized || cl.retry || token == "" {
			return resp, apiErr
		}

		if _, refreshErr := c.auth.Refresh(ctx, token); refreshErr != nil {
			c.log.Debug("refresh failed, surfacing original 401", logger.Fields(
				logger.FieldMethod, cl.method,
				logger.FieldPath, cl.path,
				logger.FieldRequestID, observability.RequestIDFromContext(ctx),
				logger.FieldError, refreshErr.Error(),
			))
			return resp, apiErr
		}
		c.log.Debug("retrying after token refresh", logger.Fields(
			logger.FieldMethod, cl.method,
			logger.FieldPath, cl.path,
			logger.FieldRequestID, observability.RequestIDFromContext(ctx),
			logger.FieldAttempt, 2,
		))
		cl.retry = true
	}
}

// exchangeSession asks the backend for a fresh access token using the
// session cookie. It is the coordinator's RefreshFunc and never sends the
// bearer token.
func (c *Client) exchangeSession(ctx context.Context) (string, error) {
	ctx = observability.WithOperationContext(ctx, observability.NewOperationContext("POST "+PathRefresh, uuid.NewString()))
	resp, err := c.http.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: PathRefresh})
	if err != nil {
		return "", err
	}
	res := decode[model.TokenResponse](resp)
	if res.Err != nil {
		return "", res.Err
	}
	return res.Data.AccessToken, nil
}

// withRequestID starts a logical operation in ctx unless one is already
// there, so an attempt and its retry share one X-Request-ID.
func withRequestID(ctx context.Context, operation string) context.Context {
	if observability.RequestIDFromContext(ctx) != "" {
		return ctx
	}
	return observability.WithOperationContext(ctx, observability.NewOperationContext(operation, uuid.NewString()))
}

// decode parses a successful response into T. An empty body yields the
// zero value; a body that does not fit T is a Parse error.
func decode[T any](resp *httpclient.Response) Result[T] {
	var data T
	if resp == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return ok(data)
	}
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return fail[T](httpclient.NewParseError(resp.StatusCode, resp.Body, err))
	}
	return ok(data)
}
