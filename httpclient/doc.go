// Package httpclient executes single requests against the backend origin
// and classifies every outcome into one *Error.
//
// A Client injects the bearer token, encodes JSON or multipart bodies,
// bounds each attempt with a timeout, reads the full body as text before
// parsing, and maps failures onto five kinds: Network, Timeout, Server,
// Parse and Unauthorized (plus Invalid for requests that never left the
// process). It never refreshes tokens or retries; that belongs to callers.
//
// # Basic Usage
//
//	c, err := httpclient.New(httpclient.Config{BaseURL: "http://localhost:8080"})
//
//	resp, err := c.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/api/v1/subjects",
//	    Auth:   httpclient.BearerAuth(token),
//	})
//	if httpclient.IsUnauthorized(err) {
//	    // refresh and retry once
//	}
package httpclient
