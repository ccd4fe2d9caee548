package fakeapi

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"testing"

	"github.com/kbukum/studyhub/model"
)

func postJSON(t *testing.T, c *http.Client, url, body string) *http.Response {
	t.Helper()
	resp, err := c.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func getWithToken(t *testing.T, c *http.Client, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestServer_SessionLifecycle(t *testing.T) {
	s := New(t)
	s.AddUser("ada@example.com", "pw", model.RoleAdmin)

	jar, _ := cookiejar.New(nil)
	hc := &http.Client{Jar: jar}

	resp := postJSON(t, hc, s.URL+"/api/v1/auth/login", `{"email":"ada@example.com","password":"pw"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var auth model.AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		t.Fatal(err)
	}
	if auth.User.Role != model.RoleAdmin {
		t.Errorf("role = %q", auth.User.Role)
	}

	if resp := getWithToken(t, hc, s.URL+"/api/v1/auth/me", auth.AccessToken); resp.StatusCode != http.StatusOK {
		t.Fatalf("me status = %d", resp.StatusCode)
	}

	s.ExpireAccessTokens()
	if resp := getWithToken(t, hc, s.URL+"/api/v1/auth/me", auth.AccessToken); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expired me status = %d", resp.StatusCode)
	}

	resp = postJSON(t, hc, s.URL+"/api/v1/auth/refresh", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh status = %d", resp.StatusCode)
	}
	var tokens model.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		t.Fatal(err)
	}
	if resp := getWithToken(t, hc, s.URL+"/api/v1/auth/me", tokens.AccessToken); resp.StatusCode != http.StatusOK {
		t.Fatalf("refreshed me status = %d", resp.StatusCode)
	}
	if s.RefreshCount() != 1 {
		t.Errorf("RefreshCount = %d", s.RefreshCount())
	}
}

func TestServer_RefreshWithoutCookie(t *testing.T) {
	s := New(t)
	resp := postJSON(t, http.DefaultClient, s.URL+"/api/v1/auth/refresh", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestServer_ScriptAndReset(t *testing.T) {
	s := New(t)
	s.Script(http.MethodGet, "/api/v1/anything", Scripted{Status: http.StatusTeapot, Body: "short and stout", ContentType: "text/plain"})

	resp := getWithToken(t, http.DefaultClient, s.URL+"/api/v1/anything", "")
	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if n := len(s.Requests(http.MethodGet, "/api/v1/anything")); n != 1 {
		t.Errorf("recorded = %d", n)
	}

	s.Reset()
	resp = getWithToken(t, http.DefaultClient, s.URL+"/api/v1/anything", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status after reset = %d", resp.StatusCode)
	}
}

func TestServer_MintToken(t *testing.T) {
	s := New(t)
	if s.MintToken("nobody@example.com") != "" {
		t.Error("unknown account should get no token")
	}
	s.AddUser("ada@example.com", "pw", model.RoleStudent)
	token := s.MintToken("ada@example.com")
	if resp := getWithToken(t, http.DefaultClient, s.URL+"/api/v1/auth/me", token); resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
