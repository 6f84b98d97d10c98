package apiclient

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL}, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, srv
}

func TestDo_AttachesBearerToken(t *testing.T) {
	t.Parallel()
	var gotAuth string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}), WithTokenSource(TokenSourceFunc(func() string { return "tok-123" })))

	if err := c.Do(context.Background(), http.MethodGet, "/api/auth/me", nil, nil); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	t.Parallel()
	var gotAuth string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}), WithTokenSource(TokenSourceFunc(func() string { return "" })))

	if err := c.Do(context.Background(), http.MethodGet, "/", nil, nil); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("unexpected Authorization header %q", gotAuth)
	}
}

func TestDo_AuthRejectHandlerRunsOncePerRequest(t *testing.T) {
	t.Parallel()
	var rejects atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}), WithAuthRejectHandler(func() { rejects.Add(1) }))

	err := c.Do(context.Background(), http.MethodGet, "/api/auth/me", nil, nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Detail != "Could not validate credentials" {
		t.Fatalf("expected server detail, got %v", err)
	}
	if got := rejects.Load(); got != 1 {
		t.Fatalf("reject handler ran %d times, want 1", got)
	}
}

func TestDo_ErrorDetailParsing(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Scan is not completed yet"}`))
	}))

	err := c.Do(context.Background(), http.MethodPost, "/api/reports/generate/1", nil, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("StatusCode = %d", apiErr.StatusCode)
	}
	if apiErr.Message() != "Scan is not completed yet" {
		t.Fatalf("Message = %q", apiErr.Message())
	}
}

func TestDo_GenericMessageWhenNoDetail(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := c.Do(context.Background(), http.MethodGet, "/api/scans/", nil, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message() != "request failed with status 500" {
		t.Fatalf("Message = %q", apiErr.Message())
	}
}

func TestDo_NetworkFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // Connection refused from here on.
	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = c.Do(context.Background(), http.MethodGet, "/", nil, nil)
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestDoForm_EncodesBody(t *testing.T) {
	t.Parallel()
	var gotBody, gotCT string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		r.ParseForm()
		gotBody = r.PostForm.Encode()
		w.Write([]byte(`{"access_token":"x"}`))
	}))

	form := url.Values{"username": {"alice"}, "password": {"s3cret"}}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.DoForm(context.Background(), http.MethodPost, "/api/auth/login", form, &out); err != nil {
		t.Fatalf("DoForm: %v", err)
	}
	if gotCT != "application/x-www-form-urlencoded" {
		t.Fatalf("Content-Type = %q", gotCT)
	}
	if gotBody != form.Encode() {
		t.Fatalf("body = %q, want %q", gotBody, form.Encode())
	}
	if out.AccessToken != "x" {
		t.Fatalf("decode failed: %+v", out)
	}
}

func TestDownload_StreamsBody(t *testing.T) {
	t.Parallel()
	payload := []byte("%PDF-1.7 fake report bytes")
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(payload)
	}))

	var buf bytes.Buffer
	n, err := c.Download(context.Background(), "/api/reports/download/1", &buf)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if n != int64(len(payload)) || !bytes.Equal(buf.Bytes(), payload) {
		t.Fatalf("downloaded %d bytes, want %d", n, len(payload))
	}
}

func TestErrorMessage_Fallback(t *testing.T) {
	t.Parallel()
	if got := ErrorMessage(errors.New("boom"), "Login failed"); got != "Login failed" {
		t.Fatalf("ErrorMessage = %q", got)
	}
	apiErr := &APIError{StatusCode: 400, Detail: "Invalid credentials"}
	if got := ErrorMessage(apiErr, "Login failed"); got != "Invalid credentials" {
		t.Fatalf("ErrorMessage = %q", got)
	}
}
