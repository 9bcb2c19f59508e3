package httpclient

import (
	"context"
	"net/http"
	"time"
)

type Options struct {
	BaseURL string
	Timeout time.Duration
	Headers map[string]string
	// RetryCount is the number of extra attempts after a transport error,
	// a 429 or a 5xx. Zero disables retries.
	RetryCount    int
	RetryWaitTime time.Duration
}

type Request struct {
	Endpoint string
	Query    map[string]string
	Headers  map[string]string
	// Result receives the decoded JSON body of a 2xx response.
	Result interface{}
}

type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
	Attempts   int
}

func (r *Response) IsSuccess() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

type HTTPClient interface {
	Get(ctx context.Context, req Request) (*Response, error)
}
