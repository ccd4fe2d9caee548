// Package fakeapi provides an in-process studyhub backend for tests.
//
// The server is a Gin engine behind an httptest.Server. It implements the
// auth endpoints with HS256 access tokens and a refresh cookie, a small
// subjects resource, document uploads and search, and exposes knobs to
// expire tokens, fail or slow the refresh endpoint and script arbitrary
// responses.
//
// # Quick Start
//
//	api := fakeapi.New(t)
//	api.AddUser("ada@example.com", "correct-horse", model.RoleStudent)
//
//	c, _ := client.New(client.Options{HTTP: httpclient.Config{BaseURL: api.URL}})
//	c.Login(ctx, model.LoginRequest{Email: "ada@example.com", Password: "correct-horse"})
//
//	api.ExpireAccessTokens()
//	res := client.Get[[]model.Subject](ctx, c, "/api/v1/subjects")
//	// one refresh, one retry
package fakeapi
