// Package client is the studyhub API access layer.
//
// A Client wraps one backend origin: it attaches the held access token,
// bounds each attempt with a timeout, normalizes every failure into an
// *httpclient.Error and, when an authenticated call is rejected with 401,
// refreshes the token once through a shared single-flight coordinator and
// retries the call exactly once.
//
// Calls never panic or return bare errors; they return a Result[T]:
//
//	c, err := client.New(client.Options{
//	    HTTP:  httpclient.Config{BaseURL: "https://api.example.com"},
//	    Store: store,
//	})
//	if err != nil {
//	    return err
//	}
//	res := client.Get[[]model.Subject](ctx, c, "/api/v1/subjects")
//	if res.Err != nil {
//	    if client.IsUnauthorized(res.Err) {
//	        // prompt for login
//	    }
//	    return res.Err
//	}
//
// Go has no generic methods, so typed verbs are package functions taking
// the *Client.
package client
