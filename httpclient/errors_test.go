package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNetwork, "network"},
		{KindTimeout, "timeout"},
		{KindServer, "server"},
		{KindParse, "parse"},
		{KindUnauthorized, "unauthorized"},
		{KindInvalid, "invalid"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestError_Error(t *testing.T) {
	e := &Error{Status: 404, Kind: KindServer, Message: "Subject not found"}
	want := "httpclient: server (HTTP 404): Subject not found"
	if got := e.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	e2 := &Error{Kind: KindNetwork, Message: "connection refused"}
	want2 := "httpclient: network: connection refused"
	if got := e2.Error(); got != want2 {
		t.Errorf("got %q, want %q", got, want2)
	}
}

func TestError_MarshalJSON(t *testing.T) {
	e := &Error{Kind: KindUnauthorized, Message: "expired", Status: 401, Code: "TOKEN_EXPIRED", Body: []byte("x")}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"kind":"unauthorized","message":"expired","status":401,"code":"TOKEN_EXPIRED"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("dial tcp: refused")
	e := NewNetworkError(inner)
	if !errors.Is(e, inner) {
		t.Error("expected errors.Is to find the inner error")
	}
}

func TestConstructors(t *testing.T) {
	if e := NewTimeoutError(nil); e.Kind != KindTimeout || e.Status != 0 {
		t.Errorf("timeout = %+v", e)
	}
	if e := NewNetworkError(nil); e.Kind != KindNetwork || e.Message != "Network error occurred" {
		t.Errorf("network = %+v", e)
	}
	if e := NewParseError(502, []byte("<html>Bad Gateway</html>"), nil); e.Message != "<html>Bad Gateway</html>" || e.Status != 502 {
		t.Errorf("parse = %+v", e)
	}
	if e := NewParseError(500, nil, nil); e.Message != "Server returned 500" {
		t.Errorf("parse empty = %q", e.Message)
	}
	if e := NewInvalidError("bad", nil); e.Kind != KindInvalid || e.Status != 0 {
		t.Errorf("invalid = %+v", e)
	}
}

func TestPredicates(t *testing.T) {
	wrapped := fmt.Errorf("wrapped: %w", &Error{Kind: KindUnauthorized})
	if !IsUnauthorized(wrapped) {
		t.Error("IsUnauthorized should see through wrapping")
	}

	tests := []struct {
		name string
		fn   func(error) bool
		kind Kind
	}{
		{"timeout", IsTimeout, KindTimeout},
		{"network", IsNetwork, KindNetwork},
		{"server", IsServer, KindServer},
		{"parse", IsParse, KindParse},
		{"unauthorized", IsUnauthorized, KindUnauthorized},
		{"invalid", IsInvalid, KindInvalid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.fn(&Error{Kind: tc.kind}) {
				t.Errorf("expected true for %s", tc.kind)
			}
			other := KindInvalid
			if tc.kind == KindInvalid {
				other = KindServer
			}
			if tc.fn(&Error{Kind: other}) {
				t.Errorf("expected false for %s", other)
			}
			if tc.fn(errors.New("plain")) {
				t.Error("expected false for non-*Error")
			}
			if tc.fn(nil) {
				t.Error("expected false for nil")
			}
		})
	}
}

func TestAsError(t *testing.T) {
	if _, ok := AsError(errors.New("plain")); ok {
		t.Error("expected false for plain error")
	}
	e, ok := AsError(fmt.Errorf("x: %w", &Error{Kind: KindParse}))
	if !ok || e.Kind != KindParse {
		t.Errorf("AsError = %+v, %v", e, ok)
	}
}
