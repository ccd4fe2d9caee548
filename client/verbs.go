package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/kbukum/studyhub/httpclient"
)

// Get performs a GET request and decodes the response into T.
func Get[T any](ctx context.Context, c *Client, path string) Result[T] {
	return do[T](ctx, c, call{method: http.MethodGet, path: path})
}

// Post performs a POST request and decodes the response into T. The body is
// JSON encoded, strings included; []byte and io.Reader bodies are sent as is.
// A nil body sends no payload.
func Post[T any](ctx context.Context, c *Client, path string, body any) Result[T] {
	return do[T](ctx, c, call{method: http.MethodPost, path: path, body: body})
}

// Put performs a PUT request and decodes the response into T. The body is
// encoded as for Post.
func Put[T any](ctx context.Context, c *Client, path string, body any) Result[T] {
	return do[T](ctx, c, call{method: http.MethodPut, path: path, body: body})
}

// Delete performs a DELETE request and decodes the response into T.
func Delete[T any](ctx context.Context, c *Client, path string) Result[T] {
	return do[T](ctx, c, call{method: http.MethodDelete, path: path})
}

// Upload posts one file plus optional string fields as multipart/form-data
// under the upload timeout and decodes the response into T. A Reader is
// buffered first so a retried attempt sends the same content.
func Upload[T any](ctx context.Context, c *Client, path string, file httpclient.FileField, fields map[string]string) Result[T] {
	if file.Reader != nil {
		data, err := io.ReadAll(file.Reader)
		if err != nil {
			return fail[T](httpclient.NewInvalidError(fmt.Sprintf("read upload: %v", err), err))
		}
		file.Data, file.Reader = data, nil
	}
	body := &httpclient.MultipartBody{
		Fields: fields,
		Files:  []httpclient.FileField{file},
	}
	return do[T](ctx, c, call{method: http.MethodPost, path: path, body: body, upload: true})
}

// do executes a call and decodes the response body into T.
func do[T any](ctx context.Context, c *Client, cl call) Result[T] {
	body, invalid := replayable(cl.body)
	if invalid != nil {
		return fail[T](invalid)
	}
	cl.body = body

	resp, err := c.execute(ctx, cl)
	if err != nil {
		return fail[T](err)
	}
	return decode[T](resp)
}

// replayable returns a body that can be sent again on a retry. Readers are
// drained into bytes and strings become JSON string values.
func replayable(body any) (any, *httpclient.Error) {
	switch v := body.(type) {
	case string:
		data, _ := json.Marshal(v)
		return json.RawMessage(data), nil
	case *httpclient.MultipartBody:
		return v, nil
	case io.Reader:
		data, err := io.ReadAll(v)
		if err != nil {
			return nil, httpclient.NewInvalidError(fmt.Sprintf("read request body: %v", err), err)
		}
		return data, nil
	default:
		return body, nil
	}
}
