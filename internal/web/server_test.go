package web

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"
)

func startServer(t *testing.T, srv *Server) (context.CancelFunc, chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case <-srv.Ready():
	case err := <-errCh:
		cancel()
		t.Fatalf("server failed to start: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("server did not become ready within timeout")
	}
	return cancel, errCh
}

// localURL dials the bound port on loopback; Addr reports the wildcard host.
func localURL(t *testing.T, srv *Server) string {
	t.Helper()
	_, port, err := net.SplitHostPort(srv.Addr())
	if err != nil {
		t.Fatalf("bad addr %q: %v", srv.Addr(), err)
	}
	return fmt.Sprintf("http://127.0.0.1:%s/", port)
}

func TestServer_StartAndStop(t *testing.T) {
	t.Parallel()

	srv := NewServer(ServerConfig{}, http.NotFoundHandler(), nil) // port 0 = random
	cancel, errCh := startServer(t, srv)

	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("server returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop within timeout")
	}
}

func TestServer_AddrBeforeStart(t *testing.T) {
	t.Parallel()

	srv := NewServer(ServerConfig{}, http.NotFoundHandler(), nil)
	if addr := srv.Addr(); addr != "" {
		t.Errorf("expected empty addr before start, got %q", addr)
	}
}

func TestServer_DoubleStart(t *testing.T) {
	t.Parallel()

	srv := NewServer(ServerConfig{}, http.NotFoundHandler(), nil)
	cancel, _ := startServer(t, srv)
	defer cancel()

	if err := srv.Start(context.Background()); err == nil {
		t.Fatal("expected error on second Start")
	}
}

func TestServer_ServesRoutes(t *testing.T) {
	t.Parallel()

	h, err := NewHandler(&fakeCatalog{}, &fakeShows{}, &fakeStreams{}, testLogger())
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	srv := NewServer(ServerConfig{ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}, h.Routes(), testLogger())
	cancel, _ := startServer(t, srv)
	defer cancel()

	_, port, err := net.SplitHostPort(srv.Addr())
	if err != nil {
		t.Fatalf("bad addr %q: %v", srv.Addr(), err)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet,
		fmt.Sprintf("http://127.0.0.1:%s/health", port), http.NoBody)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok\n" {
		t.Errorf("health = %d %q, want 200 %q", resp.StatusCode, body, "ok\n")
	}
}

func TestServer_DrainsInFlightRequests(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		close(entered)
		<-release
		_, _ = w.Write([]byte("done"))
	})
	srv := NewServer(ServerConfig{}, handler, testLogger())
	cancel, errCh := startServer(t, srv)

	type result struct {
		body string
		err  error
	}
	target := localURL(t, srv)
	got := make(chan result, 1)
	go func() {
		resp, err := http.Get(target)
		if err != nil {
			got <- result{err: err}
			return
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		got <- result{body: string(body), err: err}
	}()

	<-entered
	cancel()
	select {
	case err := <-errCh:
		t.Fatalf("Start returned before the request finished: %v", err)
	case <-time.After(100 * time.Millisecond):
	}
	close(release)

	res := <-got
	if res.err != nil || res.body != "done" {
		t.Fatalf("in-flight request = %q, %v; want %q", res.body, res.err, "done")
	}
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("server returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop within timeout")
	}
}

func TestServer_NilHandlerAnswers404(t *testing.T) {
	t.Parallel()

	srv := NewServer(ServerConfig{}, nil, nil)
	cancel, _ := startServer(t, srv)
	defer cancel()

	resp, err := http.Get(localURL(t, srv))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
