package auth

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"golang.org/x/sync/errgroup"

	"github.com/kbukum/studyhub/credential"
	"github.com/kbukum/studyhub/observability"
)

func newStore(t *testing.T, token string) *credential.Store {
	t.Helper()
	s := credential.NewStore(context.Background(), credential.NewMemoryBackend())
	if token != "" {
		s.Set(context.Background(), token)
	}
	return s
}

func TestCoordinator_RefreshSuccess(t *testing.T) {
	store := newStore(t, "tok-0")
	var calls atomic.Int32
	c := NewCoordinator(store, func(context.Context) (string, error) {
		calls.Add(1)
		return "tok-1", nil
	})

	token, err := c.Refresh(context.Background(), "tok-0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "tok-1" {
		t.Errorf("token = %q, want tok-1", token)
	}
	if got, _ := store.Get(); got != "tok-1" {
		t.Errorf("stored token = %q, want tok-1", got)
	}
	if calls.Load() != 1 {
		t.Errorf("refresh calls = %d, want 1", calls.Load())
	}
}

func TestCoordinator_RefreshFailureLeavesTokenUntouched(t *testing.T) {
	store := newStore(t, "tok-0")
	boom := errors.New("refresh rejected")
	c := NewCoordinator(store, func(context.Context) (string, error) { return "", boom })

	_, err := c.Refresh(context.Background(), "tok-0")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped refresh error, got %v", err)
	}
	if got, _ := store.Get(); got != "tok-0" {
		t.Errorf("stored token = %q, want tok-0", got)
	}
}

func TestCoordinator_EmptyTokenIsFailure(t *testing.T) {
	store := newStore(t, "tok-0")
	c := NewCoordinator(store, func(context.Context) (string, error) { return "", nil })

	if _, err := c.Refresh(context.Background(), "tok-0"); !errors.Is(err, ErrEmptyToken) {
		t.Fatalf("expected ErrEmptyToken, got %v", err)
	}
	if got, _ := store.Get(); got != "tok-0" {
		t.Errorf("stored token = %q, want tok-0", got)
	}
}

func TestCoordinator_NoTokenHeld(t *testing.T) {
	var calls atomic.Int32
	c := NewCoordinator(newStore(t, ""), func(context.Context) (string, error) {
		calls.Add(1)
		return "tok-1", nil
	})

	if _, err := c.Refresh(context.Background(), ""); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("refresh calls = %d, want 0", calls.Load())
	}
}

func TestCoordinator_AlreadyReplaced(t *testing.T) {
	var calls atomic.Int32
	c := NewCoordinator(newStore(t, "tok-1"), func(context.Context) (string, error) {
		calls.Add(1)
		return "tok-2", nil
	})

	token, err := c.Refresh(context.Background(), "tok-0")
	if err != nil {
		t.Fatal(err)
	}
	if token != "tok-1" {
		t.Errorf("token = %q, want the already-held tok-1", token)
	}
	if calls.Load() != 0 {
		t.Errorf("refresh calls = %d, want 0", calls.Load())
	}
}

func TestCoordinator_ConcurrentCallersShareOneRefresh(t *testing.T) {
	const callers = 25
	store := newStore(t, "tok-0")

	var calls atomic.Int32
	release := make(chan struct{})
	c := NewCoordinator(store, func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "tok-1", nil
	})

	var started sync.WaitGroup
	started.Add(callers)
	g, ctx := errgroup.WithContext(context.Background())
	tokens := make([]string, callers)
	for i := 0; i < callers; i++ {
		g.Go(func() error {
			started.Done()
			token, err := c.Refresh(ctx, "tok-0")
			tokens[i] = token
			return err
		})
	}

	started.Wait()
	time.Sleep(20 * time.Millisecond)
	close(release)

	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("refresh calls = %d, want exactly 1", calls.Load())
	}
	for i, tok := range tokens {
		if tok != "tok-1" {
			t.Errorf("caller %d got %q, want tok-1", i, tok)
		}
	}
}

func TestCoordinator_CallerCancellationDoesNotAbortRefresh(t *testing.T) {
	store := newStore(t, "tok-0")
	release := make(chan struct{})
	done := make(chan struct{})
	c := NewCoordinator(store, func(ctx context.Context) (string, error) {
		defer close(done)
		<-release
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "tok-1", nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := c.Refresh(ctx, "tok-0")
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled for the waiting caller, got %v", err)
	}

	close(release)
	<-done
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if got, _ := store.Get(); got == "tok-1" {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("detached refresh did not store the new token")
}

func TestCoordinator_RecordsSpanAndMetrics(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := observability.NewClientMetrics(observability.Meter(mp))
	if err != nil {
		t.Fatal(err)
	}

	c := NewCoordinator(newStore(t, "tok-0"), func(context.Context) (string, error) {
		return "tok-1", nil
	}, WithTracerProvider(tp), WithMetrics(metrics))

	if _, err := c.Refresh(context.Background(), "tok-0"); err != nil {
		t.Fatal(err)
	}
	// second caller with the stale token is served from the store
	if _, err := c.Refresh(context.Background(), "tok-0"); err != nil {
		t.Fatal(err)
	}

	spans := recorder.Ended()
	if len(spans) != 1 || spans[0].Name() != observability.SpanAuthRefresh {
		t.Fatalf("expected one %s span, got %d", observability.SpanAuthRefresh, len(spans))
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	results := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "auth.refresh.total" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				v, _ := dp.Attributes.Value(observability.AttrResult)
				results[v.AsString()] += dp.Value
			}
		}
	}
	if results[observability.RefreshSuccess] != 1 || results[observability.RefreshSkipped] != 1 {
		t.Errorf("refresh results = %v", results)
	}
}
