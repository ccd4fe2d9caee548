package credential

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"path/filepath"
	"testing"
	"time"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func cookieValue(cookies []*http.Cookie, name string) string {
	for _, c := range cookies {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func TestSessionJarSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	b, err := NewFileBackend(filepath.Join(t.TempDir(), "credentials.toml"))
	if err != nil {
		t.Fatal(err)
	}
	login := mustURL(t, "http://127.0.0.1:8080/api/v1/auth/login")
	refresh := mustURL(t, "http://127.0.0.1:8080/api/v1/auth/refresh")

	first := NewSessionJar(ctx, b)
	first.SetCookies(login, []*http.Cookie{
		{Name: "refresh_token", Value: "r-1", Path: "/api/v1/auth", MaxAge: 3600, HttpOnly: true},
	})

	second := NewSessionJar(ctx, b)
	if got := cookieValue(second.Cookies(refresh), "refresh_token"); got != "r-1" {
		t.Fatalf("refresh_token after restart = %q, want r-1", got)
	}
	if got := second.Cookies(mustURL(t, "http://127.0.0.1:8080/api/v1/subjects")); len(got) != 0 {
		t.Errorf("cookie leaked outside its path: %v", got)
	}
}

func TestSessionJarDeletesCookies(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	u := mustURL(t, "http://example.com/api/v1/auth/login")

	j := NewSessionJar(ctx, b)
	j.SetCookies(u, []*http.Cookie{{Name: "refresh_token", Value: "r-1", Path: "/api/v1/auth"}})
	j.SetCookies(u, []*http.Cookie{{Name: "refresh_token", Path: "/api/v1/auth", MaxAge: -1}})

	if _, ok, _ := b.Get(ctx, DefaultSessionKey); ok {
		t.Error("deleted cookie still persisted")
	}
	if got := NewSessionJar(ctx, b).Cookies(u); len(got) != 0 {
		t.Errorf("cookies after delete = %v", got)
	}
}

func TestSessionJarSkipsExpired(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	u := mustURL(t, "http://example.com/")

	j := NewSessionJar(ctx, b)
	j.SetCookies(u, []*http.Cookie{{Name: "sid", Value: "s", MaxAge: 60}})

	later := NewSessionJar(ctx, b, func(j *SessionJar) {
		j.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	})
	if got := later.Cookies(u); len(got) != 0 {
		t.Errorf("expired cookie replayed: %v", got)
	}
}

func TestSessionJarClear(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	u := mustURL(t, "http://example.com/")

	j := NewSessionJar(ctx, b)
	j.SetCookies(u, []*http.Cookie{{Name: "sid", Value: "s"}})
	j.Clear(ctx)

	if got := j.Cookies(u); len(got) != 0 {
		t.Errorf("cookies after Clear = %v", got)
	}
	if _, ok, _ := b.Get(ctx, DefaultSessionKey); ok {
		t.Error("Clear left the session in the backend")
	}
}

func TestSessionJarBackendFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	u := mustURL(t, "http://example.com/")

	j := NewSessionJar(ctx, failingBackend{getErr: boom, setErr: boom, removeErr: boom})
	j.SetCookies(u, []*http.Cookie{{Name: "sid", Value: "s"}})
	if got := cookieValue(j.Cookies(u), "sid"); got != "s" {
		t.Errorf("in-memory cookie = %q, want s", got)
	}
	j.Clear(ctx)
}

func TestSessionJarIgnoresCorruptValue(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	_ = b.Set(ctx, DefaultSessionKey, "{not json")

	j := NewSessionJar(ctx, b)
	if got := j.Cookies(mustURL(t, "http://example.com/")); len(got) != 0 {
		t.Errorf("cookies = %v", got)
	}
}
