package httpclient

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
)

type RestyClient struct {
	client *resty.Client
}

func New(opts Options) HTTPClient {
	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetHeaders(opts.Headers)

	if opts.RetryCount > 0 {
		client.
			SetRetryCount(opts.RetryCount).
			SetRetryWaitTime(opts.RetryWaitTime).
			AddRetryCondition(shouldRetry)
	}

	return &RestyClient{client: client}
}

func shouldRetry(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	code := resp.StatusCode()
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// Get issues a GET request. A non-2xx status is not an error; callers check
// Response.IsSuccess.
func (rc *RestyClient) Get(ctx context.Context, req Request) (*Response, error) {
	r := rc.client.R().SetContext(ctx)
	if req.Result != nil {
		r.SetResult(req.Result)
	}
	if len(req.Query) > 0 {
		r.SetQueryParams(req.Query)
	}
	if len(req.Headers) > 0 {
		r.SetHeaders(req.Headers)
	}

	resp, err := r.Get(req.Endpoint)
	if resp == nil {
		return &Response{}, err
	}
	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Headers:    resp.Header(),
		Attempts:   resp.Request.Attempt,
	}, err
}
