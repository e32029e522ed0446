package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method         string
	Path           string
	Query          string
	IdempotencyKey string
	Body           map[string]any
}

// fakeAPI records requests and answers with the queued statuses, then 200.
type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	statuses []int
	body     string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec := recordedRequest{
		Method:         r.Method,
		Path:           r.URL.Path,
		Query:          r.URL.RawQuery,
		IdempotencyKey: r.Header.Get(idempotencyKeyHeader),
	}
	if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
		_ = json.Unmarshal(raw, &rec.Body)
	}
	f.requests = append(f.requests, rec)

	status := http.StatusOK
	if len(f.statuses) > 0 {
		status, f.statuses = f.statuses[0], f.statuses[1:]
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := f.body
	if body == "" {
		body = `{"ok":true}`
	}
	_, _ = w.Write([]byte(body))
}

func runCLI(t *testing.T, api *fakeAPI, args ...string) (string, error) {
	t.Helper()

	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append([]string{"--url", srv.URL}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, []byte(`{"a":1}`)))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, printJSON(&buf, []byte(`not json`)))
	assert.Equal(t, "not json\n", buf.String())
}

func TestPayCommandSendsPayment(t *testing.T) {
	api := &fakeAPI{body: `{"payment_id":"payment1"}`}

	out, err := runCLI(t, api, "pay", "a1", "100", "--timestamp", "42")
	require.NoError(t, err)
	assert.Contains(t, out, `"payment_id": "payment1"`)

	require.Len(t, api.requests, 1)
	req := api.requests[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/v1/payments", req.Path)
	assert.NotEmpty(t, req.IdempotencyKey)
	assert.Equal(t, map[string]any{"timestamp": 42.0, "account_id": "a1", "amount": 100.0}, req.Body)
}

func TestTransferCommandRejectsBadAmount(t *testing.T) {
	api := &fakeAPI{}

	_, err := runCLI(t, api, "transfer", "a1", "a2", "-5")
	require.Error(t, err)
	assert.Empty(t, api.requests)
}

func TestTransactionsCommandPassesTimestamp(t *testing.T) {
	api := &fakeAPI{}

	_, err := runCLI(t, api, "transactions", "a1", "--timestamp", "86400002")
	require.NoError(t, err)

	require.Len(t, api.requests, 1)
	assert.Equal(t, "/api/v1/accounts/a1/transactions", api.requests[0].Path)
	assert.Equal(t, "timestamp=86400002", api.requests[0].Query)
}

func TestDepositRetriesUnavailableWithSameKey(t *testing.T) {
	api := &fakeAPI{statuses: []int{http.StatusServiceUnavailable, http.StatusServiceUnavailable}}

	_, err := runCLI(t, api, "deposit", "a1", "10", "--timestamp", "1", "--idempotency-key", "dep-1")
	require.NoError(t, err)

	require.Len(t, api.requests, 3)
	for _, req := range api.requests {
		assert.Equal(t, "dep-1", req.IdempotencyKey)
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	api := &fakeAPI{statuses: []int{http.StatusBadRequest}, body: `{"error":"insufficient funds"}`}

	_, err := runCLI(t, api, "pay", "a1", "100")
	require.Error(t, err)

	var apiErr *apiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Error(), "insufficient funds")
	assert.Len(t, api.requests, 1)
}

func TestReadCommandsSendNoIdempotencyKey(t *testing.T) {
	api := &fakeAPI{}

	for _, args := range [][]string{{"accounts"}, {"balance", "a1"}, {"reconcile"}} {
		_, err := runCLI(t, api, args...)
		require.NoError(t, err)
	}

	require.Len(t, api.requests, 3)
	assert.Equal(t, "/api/v1/accounts", api.requests[0].Path)
	assert.Equal(t, "/api/v1/accounts/a1/balance", api.requests[1].Path)
	assert.Equal(t, "/api/v1/ledger/reconciliation", api.requests[2].Path)
	for _, req := range api.requests {
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Empty(t, req.IdempotencyKey)
	}
}
