package auth

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/kbukum/studyhub/credential"
	"github.com/kbukum/studyhub/logger"
	"github.com/kbukum/studyhub/observability"
)

// ErrNoToken is returned by Refresh when no token is held, so there is no
// session to recover.
var ErrNoToken = errors.New("auth: no access token held")

// ErrEmptyToken is returned when the refresh endpoint answers without a token.
var ErrEmptyToken = errors.New("auth: refresh returned an empty access token")

// RefreshFunc obtains a fresh access token from the backend using ambient
// session credentials.
type RefreshFunc func(ctx context.Context) (string, error)

// refreshKey is the single-flight key; one session means one refresh.
const refreshKey = "refresh"

// Coordinator serializes token refreshes. Safe for concurrent use.
type Coordinator struct {
	group   singleflight.Group
	store   *credential.Store
	refresh RefreshFunc

	log     *logger.Logger
	tracer  trace.Tracer
	metrics *observability.ClientMetrics
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l.WithComponent("auth")
		}
	}
}

// WithTracerProvider sets the tracer provider used for refresh spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Coordinator) { c.tracer = observability.Tracer(tp) }
}

// WithMetrics sets the instruments refresh outcomes are recorded on.
func WithMetrics(m *observability.ClientMetrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// NewCoordinator creates a Coordinator that writes refreshed tokens to store.
func NewCoordinator(store *credential.Store, refresh RefreshFunc, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:   store,
		refresh: refresh,
		log:     logger.Nop(),
		tracer:  observability.Tracer(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh returns a token to retry with after a request carrying stale was
// rejected with 401.
//
// If the store already holds a token other than stale, that token is
// returned without contacting the backend. Otherwise the caller joins the
// in-flight refresh or starts one. The refresh itself is detached from ctx
// cancellation so one impatient caller cannot fail it for the others; ctx
// only bounds how long this caller waits.
//
// On failure the stored token is left untouched.
func (c *Coordinator) Refresh(ctx context.Context, stale string) (string, error) {
	if token, ok := c.replaced(stale); ok {
		c.metrics.RecordRefresh(ctx, observability.RefreshSkipped)
		return token, nil
	}
	if _, held := c.store.Get(); !held {
		return "", ErrNoToken
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(refreshKey, func() (any, error) {
		// a refresh may have completed between the check above and joining
		if token, ok := c.replaced(stale); ok {
			c.metrics.RecordRefresh(detached, observability.RefreshSkipped)
			return token, nil
		}
		return c.run(detached)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// replaced reports the held token when it differs from stale.
func (c *Coordinator) replaced(stale string) (string, bool) {
	current, ok := c.store.Get()
	if !ok || current == stale {
		return "", false
	}
	return current, true
}

func (c *Coordinator) run(ctx context.Context) (string, error) {
	ctx, span := c.tracer.Start(ctx, observability.SpanAuthRefresh)
	defer span.End()

	token, err := c.refresh(ctx)
	if err == nil && token == "" {
		err = ErrEmptyToken
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.metrics.RecordRefresh(ctx, observability.RefreshFailure)
		c.log.Warn("token refresh failed", logger.Fields(logger.FieldError, err.Error()))
		return "", fmt.Errorf("auth: refresh: %w", err)
	}

	c.store.Set(ctx, token)
	c.metrics.RecordRefresh(ctx, observability.RefreshSuccess)
	c.log.Info("access token refreshed")
	return token, nil
}
