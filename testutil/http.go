package testutil

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/coreerr"
)

// FakeHttpClient implements capability.HttpClient, serving canned
// responses keyed by URL instead of hitting a real network.
type FakeHttpClient struct {
	mu        sync.Mutex
	Responses map[string]*capability.HttpResponse
	Connected bool
}

func NewFakeHttpClient() *FakeHttpClient {
	return &FakeHttpClient{Responses: make(map[string]*capability.HttpResponse), Connected: true}
}

func (c *FakeHttpClient) SetResponse(url string, resp *capability.HttpResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Responses[url] = resp
}

func (c *FakeHttpClient) Execute(ctx context.Context, req capability.HttpRequest) (*capability.HttpResponse, error) {
	c.mu.Lock()
	resp, ok := c.Responses[req.URL]
	c.mu.Unlock()

	if !ok {
		return nil, coreerr.New(coreerr.KindHTTPError, "no fake response registered for "+req.URL, nil)
	}

	return resp, nil
}

func (c *FakeHttpClient) ExecuteWithRetry(ctx context.Context, req capability.HttpRequest, policy capability.RetryPolicy) (*capability.HttpResponse, error) {
	return c.Execute(ctx, req)
}

func (c *FakeHttpClient) DownloadStream(ctx context.Context, url string) (io.ReadCloser, error) {
	resp, err := c.Execute(ctx, capability.HttpRequest{Method: "GET", URL: url})
	if err != nil {
		return nil, err
	}

	return io.NopCloser(bytes.NewReader(resp.Body)), nil
}

func (c *FakeHttpClient) IsConnected(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.Connected
}

var _ capability.HttpClient = (*FakeHttpClient)(nil)
