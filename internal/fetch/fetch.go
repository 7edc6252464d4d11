// Package fetch provides the bounded-retry HTTP fetcher every provider call
// is built on.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Error is a fetch failure after the retry budget is exhausted. It carries
// the request target and the last underlying error.
type Error struct {
	URL string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client wraps a shared resty client configured with the retry budget.
// Safe for concurrent use; each site evaluation may share one instance.
type Client struct {
	rest *resty.Client
}

// New builds a fetcher performing up to maxRetries attempts per call, with a
// per-attempt timeout and a non-decreasing wait between attempts starting at
// retryWait. Any transport error or non-2xx status is retryable.
func New(timeout time.Duration, maxRetries int, retryWait time.Duration) *Client {
	if maxRetries < 1 {
		maxRetries = 1
	}

	rest := resty.New().
		SetTimeout(timeout).
		SetRetryCount(maxRetries - 1).
		SetRetryWaitTime(retryWait).
		SetRetryMaxWaitTime(retryWait * time.Duration(maxRetries)).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.IsError()
		})

	return &Client{rest: rest}
}

// GetJSON fetches url and decodes the response body into out. On exhausted
// retries or a malformed body it returns a *Error and leaves out untouched
// or partially filled, never silently-partial data treated as success.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	resp, err := c.do(ctx, url, headers)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &Error{URL: url, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// GetText fetches url and returns the raw response body, for feed parsing.
func (c *Client) GetText(ctx context.Context, url string, headers map[string]string) (string, error) {
	resp, err := c.do(ctx, url, headers)
	if err != nil {
		return "", err
	}
	return resp.String(), nil
}

// PostJSON posts body (marshalled as JSON) to url under the same retry
// budget as the GET helpers.
func (c *Client) PostJSON(ctx context.Context, url string, body any) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(url)
	return checkResponse(url, resp, err)
}

func (c *Client) do(ctx context.Context, url string, headers map[string]string) (*resty.Response, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if cerr := checkResponse(url, resp, err); cerr != nil {
		return nil, cerr
	}
	return resp, nil
}

func checkResponse(url string, resp *resty.Response, err error) error {
	if err != nil {
		return &Error{URL: url, Err: err}
	}
	if resp.IsError() {
		body := strings.TrimSpace(resp.String())
		if len(body) > 200 {
			body = body[:200]
		}
		return &Error{URL: url, Err: fmt.Errorf("status %d: %s", resp.StatusCode(), body)}
	}
	return nil
}
