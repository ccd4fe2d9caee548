package httpclient

import "net/http"

// AuthConfig carries the bearer credential for one request.
type AuthConfig struct {
	// Token is the bearer token.
	Token string
}

// BearerAuth creates a bearer token auth config. An empty token yields nil,
// so no Authorization header is sent.
func BearerAuth(token string) *AuthConfig {
	if token == "" {
		return nil
	}
	return &AuthConfig{Token: token}
}

// apply applies authentication to an HTTP request.
func (a *AuthConfig) apply(req *http.Request) {
	if a == nil || a.Token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+a.Token)
}

// BearerToken returns the token carried by a, or "".
func (a *AuthConfig) BearerToken() string {
	if a == nil {
		return ""
	}
	return a.Token
}
