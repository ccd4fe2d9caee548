package httpclient

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
		wantMsg  string
		wantCode string
	}{
		{
			name:     "nested error object",
			status:   400,
			body:     `{"error":{"code":"VALIDATION_FAILED","message":"Name is required"},"message":"ignored"}`,
			wantKind: KindServer,
			wantMsg:  "Name is required",
			wantCode: "VALIDATION_FAILED",
		},
		{
			name:     "nested object without message falls back to top-level message",
			status:   409,
			body:     `{"error":{"code":"CONFLICT"},"message":"Already exists"}`,
			wantKind: KindServer,
			wantMsg:  "Already exists",
			wantCode: "CONFLICT",
		},
		{
			name:     "top-level message beats error string",
			status:   404,
			body:     `{"error":"not_found","message":"Subject not found"}`,
			wantKind: KindServer,
			wantMsg:  "Subject not found",
		},
		{
			name:     "error string only",
			status:   500,
			body:     `{"error":"database unavailable"}`,
			wantKind: KindServer,
			wantMsg:  "database unavailable",
		},
		{
			name:     "top-level code",
			status:   429,
			body:     `{"message":"slow down","code":"RATE_LIMITED"}`,
			wantKind: KindServer,
			wantMsg:  "slow down",
			wantCode: "RATE_LIMITED",
		},
		{
			name:     "numeric code",
			status:   400,
			body:     `{"error":{"code":1042,"message":"bad"}}`,
			wantKind: KindServer,
			wantMsg:  "bad",
			wantCode: "1042",
		},
		{
			name:     "no usable fields",
			status:   500,
			body:     `{"detail":"something"}`,
			wantKind: KindServer,
			wantMsg:  DefaultErrorMessage,
		},
		{
			name:     "null error",
			status:   500,
			body:     `{"error":null}`,
			wantKind: KindServer,
			wantMsg:  DefaultErrorMessage,
		},
		{
			name:     "non-string message ignored",
			status:   400,
			body:     `{"message":{"en":"x"},"error":"fallback"}`,
			wantKind: KindServer,
			wantMsg:  "fallback",
		},
		{
			name:     "array body",
			status:   500,
			body:     `["a","b"]`,
			wantKind: KindServer,
			wantMsg:  DefaultErrorMessage,
		},
		{
			name:     "401 is unauthorized",
			status:   401,
			body:     `{"error":{"code":"TOKEN_EXPIRED","message":"Token expired"}}`,
			wantKind: KindUnauthorized,
			wantMsg:  "Token expired",
			wantCode: "TOKEN_EXPIRED",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := Normalize(tc.status, []byte(tc.body))
			if e.Kind != tc.wantKind {
				t.Errorf("kind = %s, want %s", e.Kind, tc.wantKind)
			}
			if e.Message != tc.wantMsg {
				t.Errorf("message = %q, want %q", e.Message, tc.wantMsg)
			}
			if e.Code != tc.wantCode {
				t.Errorf("code = %q, want %q", e.Code, tc.wantCode)
			}
			if e.Status != tc.status {
				t.Errorf("status = %d, want %d", e.Status, tc.status)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantNil  bool
		wantKind Kind
		wantMsg  string
	}{
		{name: "2xx json", status: 200, body: `{"ok":true}`, wantNil: true},
		{name: "2xx empty", status: 204, body: ``, wantNil: true},
		{name: "2xx non-json", status: 200, body: `hello`, wantKind: KindParse, wantMsg: "hello"},
		{name: "5xx html", status: 502, body: `<html>Bad Gateway</html>`, wantKind: KindParse, wantMsg: "<html>Bad Gateway</html>"},
		{name: "5xx empty", status: 503, body: ``, wantKind: KindParse, wantMsg: "Server returned 503"},
		{name: "4xx json", status: 404, body: `{"message":"gone"}`, wantKind: KindServer, wantMsg: "gone"},
		{name: "401 json", status: 401, body: `{"message":"expired"}`, wantKind: KindUnauthorized, wantMsg: "expired"},
		{name: "401 plain text", status: 401, body: `Unauthorized`, wantKind: KindUnauthorized, wantMsg: "Unauthorized"},
		{name: "401 empty", status: 401, body: ``, wantKind: KindUnauthorized, wantMsg: "Server returned 401"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := Classify(tc.status, []byte(tc.body))
			if tc.wantNil {
				if e != nil {
					t.Fatalf("expected nil, got %v", e)
				}
				return
			}
			if e == nil {
				t.Fatal("expected error")
			}
			if e.Kind != tc.wantKind {
				t.Errorf("kind = %s, want %s", e.Kind, tc.wantKind)
			}
			if e.Message != tc.wantMsg {
				t.Errorf("message = %q, want %q", e.Message, tc.wantMsg)
			}
			if e.Status != tc.status {
				t.Errorf("status = %d, want %d", e.Status, tc.status)
			}
		})
	}
}
