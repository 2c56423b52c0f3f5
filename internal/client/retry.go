package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

const (
	backoffBase = time.Second
	backoffCap  = 10 * time.Second
)

// backoffDelay returns the sleep before retry number attempt (1-based):
// 2s, 4s, 8s, then capped at 10s.
func backoffDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := backoffBase
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= backoffCap {
			return backoffCap
		}
	}
	return d
}

// doRequest issues the built request up to maxRetries times with exponential
// backoff between attempts. Every non-2xx response and transport failure
// counts against the budget; once it is exhausted the most recent failure
// is propagated.
func (c *Client) doRequest(ctx context.Context, build func(ctx context.Context) (*http.Request, error), maxRetries int) ([]byte, error) {
	if maxRetries < 1 {
		return nil, &Error{Kind: KindMaxRetries, Detail: "maximum retries exceeded"}
	}
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		body, err := c.doOnce(ctx, build)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if attempt == maxRetries {
			break
		}
		if err := c.sleep(ctx, backoffDelay(attempt)); err != nil {
			return nil, &Error{Kind: KindRequestFailed, Detail: "request canceled", Err: err}
		}
	}
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, build func(ctx context.Context) (*http.Request, error)) ([]byte, error) {
	req, err := build(ctx)
	if err != nil {
		return nil, &Error{Kind: KindRequestFailed, Detail: "build request failed", Err: err}
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindRequestFailed, Detail: "request failed: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindRequestFailed, Detail: "read response failed", Err: err}
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	return nil, statusError(resp.StatusCode, body)
}

func badRequestDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return "bad request"
}
