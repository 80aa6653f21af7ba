// Package fetcher is the external fetch collaborator of the converters: it
// downloads provider payloads over HTTP and offers decode helpers for the
// payload formats the sources deliver (JSON, CSV, XLSX).
package fetcher

import (
	"context"
	"io"
)

// Client downloads remote provider data. Implementations must return a
// *model.FetchError for unreachable hosts, timeouts, and non-2xx responses.
type Client interface {
	// Get fetches the URL and returns the response body.
	Get(ctx context.Context, url string) (io.ReadCloser, error)

	// GetAuth fetches the URL with a bearer token and returns the response
	// body.
	GetAuth(ctx context.Context, url, token string) (io.ReadCloser, error)

	// PostJSON sends body as a JSON request and returns the response body.
	PostJSON(ctx context.Context, url string, body any) (io.ReadCloser, error)
}
