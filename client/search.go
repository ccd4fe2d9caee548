package client

import (
	"context"
	"net/http"

	"github.com/kbukum/studyhub/httpclient"
	"github.com/kbukum/studyhub/search"
)

// Search queries the search endpoint. An empty q is a browse request.
func (c *Client) Search(ctx context.Context, q string, filters search.Filters) Result[search.Response] {
	if err := filters.Validate(); err != nil {
		return fail[search.Response](httpclient.NewInvalidError(err.Error(), err))
	}
	return do[search.Response](ctx, c, call{
		method:   http.MethodGet,
		path:     PathSearch,
		rawQuery: search.Build(q, filters).Encode(),
	})
}
