package observability

import (
	"context"
	"time"
)

// OperationContext identifies one logical client call across its attempts.
type OperationContext struct {
	Operation string
	RequestID string
	StartTime time.Time
}

// NewOperationContext creates an OperationContext started now.
func NewOperationContext(operation, requestID string) *OperationContext {
	return &OperationContext{
		Operation: operation,
		RequestID: requestID,
		StartTime: time.Now(),
	}
}

// operationContextKey is the context key for OperationContext.
type operationContextKey struct{}

// WithOperationContext stores an OperationContext in the context.
func WithOperationContext(ctx context.Context, oc *OperationContext) context.Context {
	return context.WithValue(ctx, operationContextKey{}, oc)
}

// OperationContextFromContext retrieves the OperationContext from context, or nil.
func OperationContextFromContext(ctx context.Context) *OperationContext {
	if oc, ok := ctx.Value(operationContextKey{}).(*OperationContext); ok {
		return oc
	}
	return nil
}

// RequestIDFromContext returns the request ID of the operation in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	if oc := OperationContextFromContext(ctx); oc != nil {
		return oc.RequestID
	}
	return ""
}

// Duration returns the elapsed time since operation start.
func (oc *OperationContext) Duration() time.Duration {
	return time.Since(oc.StartTime)
}
