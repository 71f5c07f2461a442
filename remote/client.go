package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"genoscope/models/dtos/errors"

	"github.com/Jeffail/gabs"
	"github.com/cenkalti/backoff"
)

const (
	defaultTimeout = 30 * time.Second
	maxRetries     = 4

	// Response size caps. Structure files run big, JSON answers do not.
	maxJsonBody = 10 << 20
	maxFileBody = 50 << 20
)

// Client is the shared HTTP layer under every adapter: exponential
// backoff on 5xx and network failures, 4xx fatal, capped reads,
// taxonomy-coded errors.
type Client struct {
	http *http.Client
}

func NewClient() *Client {
	return &Client{http: &http.Client{Timeout: defaultTimeout}}
}

// retryableStatus mirrors the upstream statuses worth another attempt.
func retryableStatus(status int) bool {
	return status >= 500 || status == http.StatusTooManyRequests
}

type fetchResult struct {
	status int
	body   []byte
}

// fetch runs one request with retries. The returned error is already
// taxonomy-coded; callers only add per-adapter context.
func (c *Client) fetch(ctx context.Context, method, requestUrl string, body []byte, headers map[string]string, maxBody int64) (*fetchResult, error) {
	var result *fetchResult

	operation := func() error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, requestUrl, reader)
		if err != nil {
			return backoff.Permanent(errors.NewInvalidParams(fmt.Sprintf("bad request url: %s", err)))
		}
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(errors.NewTimeout(fmt.Sprintf("request to %s timed out", requestUrl)))
			}
			// Network failure, worth another attempt.
			return errors.NewUnavailable(fmt.Sprintf("request to %s failed: %s", requestUrl, err))
		}
		defer resp.Body.Close()

		responseBody, err := ioutil.ReadAll(io.LimitReader(resp.Body, maxBody))
		if err != nil {
			return errors.NewUpstream(fmt.Sprintf("reading response from %s: %s", requestUrl, err))
		}
		if retryableStatus(resp.StatusCode) {
			return errors.NewUpstream(fmt.Sprintf("%s returned %d", requestUrl, resp.StatusCode))
		}
		if resp.StatusCode == http.StatusNotFound {
			return backoff.Permanent(errors.NewNotFound(fmt.Sprintf("%s returned 404", requestUrl)))
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(errors.NewUpstream(fmt.Sprintf("%s returned %d: %s",
				requestUrl, resp.StatusCode, truncate(string(responseBody), 200))))
		}

		result = &fetchResult{status: resp.StatusCode, body: responseBody}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		if permanent, ok := err.(*backoff.PermanentError); ok {
			return nil, permanent.Err
		}
		return nil, err
	}
	return result, nil
}

func (c *Client) GetJson(ctx context.Context, requestUrl string, headers map[string]string) (*gabs.Container, error) {
	result, err := c.fetch(ctx, http.MethodGet, requestUrl, nil, headers, maxJsonBody)
	if err != nil {
		return nil, err
	}
	parsed, err := gabs.ParseJSON(result.body)
	if err != nil {
		return nil, errors.NewUpstream(fmt.Sprintf("unparseable response from %s: %s", requestUrl, err))
	}
	return parsed, nil
}

func (c *Client) PostJson(ctx context.Context, requestUrl string, payload interface{}, headers map[string]string) (*gabs.Container, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.NewInternal(fmt.Sprintf("encoding request payload: %s", err))
	}
	merged := map[string]string{"Content-Type": "application/json"}
	for key, value := range headers {
		merged[key] = value
	}
	result, err := c.fetch(ctx, http.MethodPost, requestUrl, body, merged, maxJsonBody)
	if err != nil {
		return nil, err
	}
	parsed, err := gabs.ParseJSON(result.body)
	if err != nil {
		return nil, errors.NewUpstream(fmt.Sprintf("unparseable response from %s: %s", requestUrl, err))
	}
	return parsed, nil
}

// GetText fetches a plain-text resource under the larger file cap.
func (c *Client) GetText(ctx context.Context, requestUrl string) (string, error) {
	result, err := c.fetch(ctx, http.MethodGet, requestUrl, nil, nil, maxFileBody)
	if err != nil {
		return "", err
	}
	return string(result.body), nil
}

// PostForm submits form-encoded values and returns the text response.
func (c *Client) PostForm(ctx context.Context, requestUrl string, values url.Values) (string, error) {
	headers := map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
	result, err := c.fetch(ctx, http.MethodPost, requestUrl, []byte(values.Encode()), headers, maxJsonBody)
	if err != nil {
		return "", err
	}
	return string(result.body), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func stringAt(container *gabs.Container, path string) string {
	if value, ok := container.Path(path).Data().(string); ok {
		return value
	}
	return ""
}

func floatAt(container *gabs.Container, path string) float64 {
	if value, ok := container.Path(path).Data().(float64); ok {
		return value
	}
	return 0
}

func quoteIfSpaced(s string) string {
	if strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}
	return s
}
