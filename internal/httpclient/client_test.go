package httpclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDo_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := New(DefaultConfig(), testLogger())
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, http.NoBody)

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestDo_NoRetryOn500(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(DefaultConfig(), testLogger())
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, http.NoBody)

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", resp.StatusCode)
	}
	if calls.Load() != 1 {
		t.Errorf("expected exactly 1 call, got %d", calls.Load())
	}
}

func TestDo_DefaultUserAgent(t *testing.T) {
	var got atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("User-Agent"))
	}))
	defer server.Close()

	client := New(Config{Timeout: 5 * time.Second}, testLogger())
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, http.NoBody)

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if ua, _ := got.Load().(string); ua != DefaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", ua, DefaultUserAgent)
	}
}

func TestDo_CallerUserAgentWins(t *testing.T) {
	var got atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("User-Agent"))
	}))
	defer server.Close()

	client := New(DefaultConfig(), testLogger())
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, http.NoBody)
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if ua, _ := got.Load().(string); ua != "Mozilla/5.0" {
		t.Errorf("User-Agent = %q, want %q", ua, "Mozilla/5.0")
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := New(DefaultConfig(), testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, http.NoBody)

	_, err := client.Do(req)
	if err == nil {
		t.Fatal("expected error from canceled context")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestDo_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	target := server.URL
	server.Close()

	client := New(DefaultConfig(), testLogger())
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, target, http.NoBody)

	if _, err := client.Do(req); err == nil {
		t.Fatal("expected error for closed server")
	}
}

func TestDo_TransportErrorOmitsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	target := server.URL + "/tv/1?api_key=secret-key"
	server.Close()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client := New(DefaultConfig(), logger)
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, target, http.NoBody)

	_, err := client.Do(req)
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Errorf("error leaks query: %v", err)
	}
	if !strings.Contains(err.Error(), "/tv/1") {
		t.Errorf("error should keep the path: %v", err)
	}
	if strings.Contains(logs.String(), "secret-key") {
		t.Errorf("log leaks query: %q", logs.String())
	}
}

func TestRedact(t *testing.T) {
	plain := errors.New("boom")
	if got := redact(plain); got != plain {
		t.Errorf("non-URL errors should pass through, got %v", got)
	}

	got := redact(&url.Error{Op: "Get", URL: "https://user:pw@api.example/x?api_key=k#frag", Err: plain})
	if want := `Get "https://api.example/x": boom`; got.Error() != want {
		t.Errorf("redact = %q, want %q", got.Error(), want)
	}
	if !errors.Is(got, plain) {
		t.Error("redacted error should still wrap the cause")
	}
}

func TestNew_NilLogger(t *testing.T) {
	client := New(DefaultConfig(), nil)
	if client.logger == nil {
		t.Fatal("expected default logger")
	}
}
