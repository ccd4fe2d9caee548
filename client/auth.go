package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/kbukum/studyhub/auth"
	"github.com/kbukum/studyhub/httpclient"
	"github.com/kbukum/studyhub/logger"
	"github.com/kbukum/studyhub/model"
	"github.com/kbukum/studyhub/validation"
)

// Login exchanges credentials for a token pair and stores the access token.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) Result[model.AuthResponse] {
	return c.authenticate(ctx, PathLogin, req)
}

// Register creates an account and stores the returned access token.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) Result[model.AuthResponse] {
	return c.authenticate(ctx, PathRegister, req)
}

// authenticate posts credentials to path. A rejected credential exchange
// never triggers a refresh.
func (c *Client) authenticate(ctx context.Context, path string, credentials any) Result[model.AuthResponse] {
	if err := validation.Validate(credentials); err != nil {
		return fail[model.AuthResponse](httpclient.NewInvalidError(err.Error(), err))
	}

	resp, apiErr := c.execute(ctx, call{method: http.MethodPost, path: path, body: credentials, retry: true})
	if apiErr != nil {
		return fail[model.AuthResponse](apiErr)
	}
	res := decode[model.AuthResponse](resp)
	if res.Err != nil {
		return res
	}
	if res.Data.AccessToken == "" {
		return fail[model.AuthResponse](&httpclient.Error{
			Kind:    httpclient.KindParse,
			Message: "response carried no access token",
			Status:  resp.StatusCode,
			Body:    resp.Body,
		})
	}

	c.store.Set(ctx, res.Data.AccessToken)
	c.log.Info("authenticated", logger.Fields(
		logger.FieldPath, path,
		"user_id", res.Data.User.ID,
	))
	return res
}

// Me returns the identity the held token belongs to.
func (c *Client) Me(ctx context.Context) Result[model.User] {
	return Get[model.User](ctx, c, PathMe)
}

// Logout forgets the held access token, and the session cookies when the
// jar can clear them.
func (c *Client) Logout(ctx context.Context) {
	c.store.Clear(ctx)
	if j, ok := c.jar.(sessionClearer); ok {
		j.Clear(ctx)
	}
	c.log.Info("logged out")
}

// Restore resumes a persisted session. With no token held it returns a nil
// user and no error. The token is cleared only when the backend rejects it
// and a refresh could not recover the session; network, timeout and server
// failures leave it in place for a later attempt.
func (c *Client) Restore(ctx context.Context) Result[*model.User] {
	if !c.IsAuthenticated() {
		return ok[*model.User](nil)
	}

	res := c.Me(ctx)
	if res.Err != nil {
		if res.Err.Kind == httpclient.KindUnauthorized {
			c.store.Clear(ctx)
			c.log.Info("stored session rejected, token cleared")
		}
		return fail[*model.User](res.Err)
	}
	user := res.Data
	return ok(&user)
}

// Refresh forces a token refresh through the shared coordinator and
// returns the new access token. Concurrent callers share one refresh call.
func (c *Client) Refresh(ctx context.Context) Result[string] {
	ctx = withRequestID(ctx, "refresh")
	token, held := c.store.Get()
	if !held {
		return fail[string](&httpclient.Error{
			Kind:    httpclient.KindUnauthorized,
			Message: "Not authenticated",
			Err:     auth.ErrNoToken,
		})
	}
	fresh, err := c.auth.Refresh(ctx, token)
	if err != nil {
		return fail[string](refreshError(err))
	}
	return ok(fresh)
}

// refreshError maps a coordinator failure onto an *httpclient.Error.
func refreshError(err error) *httpclient.Error {
	if apiErr, ok := httpclient.AsError(err); ok {
		return apiErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return httpclient.NewTimeoutError(err)
	}
	return &httpclient.Error{Kind: httpclient.KindUnauthorized, Message: err.Error(), Err: err}
}
