// Package capability declares the trait-like interfaces every host
// application must implement and inject into CoreService (spec §4.1). The
// core never calls an OS API directly; every side-effect flows through one
// of these contracts. Each interface documents the coreerr.Kind values its
// methods may return instead of inventing per-capability error types.
package capability

import (
	"context"
	"io"
	"time"
)

// HttpRequest is a transport-agnostic description of an outgoing request.
type HttpRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    io.Reader
}

// HttpResponse is the host's answer to an HttpRequest.
type HttpResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// RetryPolicy configures ExecuteWithRetry's backoff schedule. The core
// does not wrap HttpClient in a retry loop of its own; internal/retry.Policy
// is a separate type used by the core's internal retry loops.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Exponential bool
}

// HttpClient is the host's transport. Implementations own connection
// pooling; the core wraps calls in retry/backoff logic, not the client.
//
// Error kinds: NotAvailable, OperationFailed, Io, Timeout, HttpError.
type HttpClient interface {
	Execute(ctx context.Context, req HttpRequest) (*HttpResponse, error)
	ExecuteWithRetry(ctx context.Context, req HttpRequest, policy RetryPolicy) (*HttpResponse, error)
	// DownloadStream returns a reader over the response body for chunked
	// ingestion (spec §4.5.4). The caller must Close the reader.
	DownloadStream(ctx context.Context, url string) (io.ReadCloser, error)
	IsConnected(ctx context.Context) bool
}
