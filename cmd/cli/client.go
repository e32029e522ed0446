package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

const idempotencyKeyHeader = "Idempotency-Key"

// apiError is a non-2xx answer from the server.
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, strings.TrimSpace(e.Body))
}

// apiClient talks to the cashledger HTTP API. Requests answered with 503
// or failing in transport are retried with exponential backoff; mutating
// requests keep one idempotency key across attempts.
type apiClient struct {
	baseURL        string
	http           *http.Client
	maxElapsedTime time.Duration
	initialBackoff time.Duration
	newKey         func() string
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &http.Client{Timeout: timeout},
		maxElapsedTime: 30 * time.Second,
		initialBackoff: 100 * time.Millisecond,
		newKey:         uuid.NewString,
	}
}

func (c *apiClient) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil, "")
}

func (c *apiClient) post(ctx context.Context, path string, payload any, idempotencyKey string) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	if idempotencyKey == "" {
		idempotencyKey = c.newKey()
	}
	return c.do(ctx, http.MethodPost, path, body, idempotencyKey)
}

func (c *apiClient) do(ctx context.Context, method, path string, body []byte, idempotencyKey string) ([]byte, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialBackoff
	b.MaxElapsedTime = c.maxElapsedTime

	var result []byte
	err := backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if idempotencyKey != "" {
			req.Header.Set(idempotencyKeyHeader, idempotencyKey)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusServiceUnavailable {
			return &apiError{Status: resp.StatusCode, Body: string(raw)}
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return backoff.Permanent(&apiError{Status: resp.StatusCode, Body: string(raw)})
		}

		result = raw
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return nil, err
	}

	return result, nil
}
