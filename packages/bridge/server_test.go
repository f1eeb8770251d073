package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apihttp "github.com/abdul-hamid-achik/apidesk/packages/http"
	"github.com/abdul-hamid-achik/apidesk/packages/observability"
)

type fakeExecutor struct {
	last *apihttp.Request
	resp *apihttp.Response
	err  error
}

func (f *fakeExecutor) Execute(ctx context.Context, req *apihttp.Request) (*apihttp.Response, error) {
	f.last = req
	return f.resp, f.err
}

func newTestServer(exec Executor) *Server {
	return NewServer(Config{Version: "test"}, exec, zerolog.Nop(), observability.NewMetrics())
}

func postExecute(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/execute", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestExecute_RoundTrip(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PUT", r.Method)
		assert.Equal(t, "1", r.Header.Get("X-Test"))
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Test", "1")
		_, _ = w.Write(body)
	}))
	defer target.Close()

	exec := apihttp.NewExecutor()
	defer exec.Close()
	s := newTestServer(exec)

	rec := postExecute(t, s, `{"method": "put", "url": "`+target.URL+`", "headers": {"X-Test": "1"}, "body": "hello"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	_, err := uuid.Parse(rec.Header().Get(InvocationHeader))
	assert.NoError(t, err)

	var resp apihttp.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "1", resp.Headers["X-Test"])
	assert.Equal(t, "hello", resp.Body)
	assert.Equal(t, 5, resp.SizeBytes)
}

func TestExecute_ValidationError(t *testing.T) {
	exec := apihttp.NewExecutor()
	s := newTestServer(exec)

	rec := postExecute(t, s, `{"method": "HEAD", "url": "http://example.test"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, errorDetail{Kind: KindValidation, Message: "Unsupported method: HEAD"}, decodeError(t, rec))
}

func TestExecute_TransportError(t *testing.T) {
	fake := &fakeExecutor{err: &apihttp.Error{Kind: apihttp.KindTransport, Err: errors.New("dial tcp: connection refused")}}
	s := newTestServer(fake)

	rec := postExecute(t, s, `{"method": "GET", "url": "http://127.0.0.1:1"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, KindTransport, detail.Kind)
	assert.Contains(t, detail.Message, "connection refused")
}

func TestExecute_BadInput(t *testing.T) {
	s := newTestServer(&fakeExecutor{})

	rec := postExecute(t, s, `{"method": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, KindRequest, decodeError(t, rec).Kind)

	rec = postExecute(t, s, `{"method": "GET", "url": "http://x.test", "timeout_ms": -1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExecute_PassesTimeoutAndBody(t *testing.T) {
	fake := &fakeExecutor{resp: &apihttp.Response{Status: 204, Headers: map[string]string{}}}
	s := newTestServer(fake)

	rec := postExecute(t, s, `{"method": "POST", "url": "http://x.test", "headers": {}, "body": "", "timeout_ms": 250}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, fake.last)
	assert.Equal(t, 250*time.Millisecond, fake.last.Timeout)
	require.NotNil(t, fake.last.Body)
	assert.Equal(t, "", *fake.last.Body)

	rec = postExecute(t, s, `{"method": "GET", "url": "http://x.test", "headers": {}, "body": null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, fake.last.Body)
}

func TestMetrics_CountOutcomes(t *testing.T) {
	fake := &fakeExecutor{resp: &apihttp.Response{Status: 200, TimeMs: 12}}
	s := newTestServer(fake)

	postExecute(t, s, `{"method": "get", "url": "http://x.test"}`)
	fake.resp, fake.err = nil, &apihttp.Error{Kind: apihttp.KindValidation, Method: "brew"}
	postExecute(t, s, `{"method": "brew", "url": "http://x.test"}`)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `apidesk_executions_total{method="GET",outcome="ok"} 1`)
	assert.Contains(t, body, `apidesk_executions_total{method="OTHER",outcome="validation"} 1`)
	assert.Contains(t, body, "apidesk_execution_duration_seconds_count")
}

func TestHealthAndVersion(t *testing.T) {
	s := newTestServer(&fakeExecutor{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"test"`)
}

func TestPreflight_AllowedOrigin(t *testing.T) {
	s := newTestServer(&fakeExecutor{})

	req := httptest.NewRequest(http.MethodOptions, "/execute", nil)
	req.Header.Set("Origin", "tauri://localhost")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "POST", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "tauri://localhost", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}

func TestForeignOriginIsRefused(t *testing.T) {
	fake := &fakeExecutor{resp: &apihttp.Response{Status: 200}}
	s := newTestServer(fake)

	for _, method := range []string{http.MethodOptions, http.MethodPost} {
		req := httptest.NewRequest(method, "/execute", strings.NewReader(`{"method": "GET", "url": "http://127.0.0.1:8080/admin"}`))
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code, method)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"), method)
		assert.Equal(t, KindRequest, decodeError(t, rec).Kind, method)
	}
	assert.Nil(t, fake.last)
}

func TestOriginPolicy(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    int
	}{
		{name: "no origin header", allowed: nil, origin: "", want: http.StatusOK},
		{name: "empty list refuses browsers", allowed: []string{}, origin: "tauri://localhost", want: http.StatusForbidden},
		{name: "configured origin", allowed: []string{"http://localhost:5173"}, origin: "http://localhost:5173", want: http.StatusOK},
		{name: "default not kept when configured", allowed: []string{"http://localhost:5173"}, origin: "tauri://localhost", want: http.StatusForbidden},
		{name: "wildcard", allowed: []string{"*"}, origin: "https://any.example", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeExecutor{resp: &apihttp.Response{Status: 200, Headers: map[string]string{}}}
			s := NewServer(Config{AllowedOrigins: tt.allowed}, fake, zerolog.Nop(), observability.NewMetrics())

			req := httptest.NewRequest(http.MethodPost, "/execute", strings.NewReader(`{"method": "GET", "url": "http://x.test"}`))
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestExecute_BodyTooLarge(t *testing.T) {
	fake := &fakeExecutor{resp: &apihttp.Response{Status: 200}}
	s := NewServer(Config{MaxBodyBytes: 64}, fake, zerolog.Nop(), observability.NewMetrics())

	rec := postExecute(t, s, `{"method": "POST", "url": "http://x.test", "body": "`+strings.Repeat("x", 128)+`"}`)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, KindRequest, decodeError(t, rec).Kind)
	assert.Nil(t, fake.last)
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := NewServer(Config{Addr: "127.0.0.1:0"}, &fakeExecutor{}, zerolog.Nop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
