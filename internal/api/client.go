package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// BaseClient is a thin JSON-over-HTTP client for the Numble API.
// Every call takes a context; non-2xx responses come back as *APIError.
type BaseClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewBaseClient(baseURL, token string, timeout time.Duration) *BaseClient {
	return &BaseClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
	}
}

func (c *BaseClient) Do(ctx context.Context, method, endpoint string, body any, params map[string]string) ([]byte, error) {
	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		q := url.Values{}
		for k, v := range params {
			q.Set(k, v)
		}
		reqURL += "?" + q.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: err.Error(), cause: err}
	}
	defer resp.Body.Close()

	slog.Debug("HTTP request completed", "url", reqURL, "status", resp.StatusCode, "elapsed", time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: err.Error(), cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return data, decodeError(resp.StatusCode, data)
	}
	return data, nil
}

func getResponse[T any](ctx context.Context, c *BaseClient, method, endpoint string, body any, params map[string]string) (*T, error) {
	raw, err := c.Do(ctx, method, endpoint, body, params)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal %s response: %w", endpoint, err)
	}
	return &out, nil
}
