package http_server

import (
	"net"
	"net/http"
	"testing"
	"time"
)

func freeAddress(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()

	return l.Addr().String()
}

func TestServeAndShutdown(t *testing.T) {
	addr := freeAddress(t)
	s := New(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), addr, ShutdownTimeout(time.Second), WriteTimeout(2*time.Second))
	if s.shutdownTimeout != time.Second || s.server.WriteTimeout != 2*time.Second {
		t.Fatalf("options not applied: %v %v", s.shutdownTimeout, s.server.WriteTimeout)
	}

	var resp *http.Response
	var err error
	for i := 0; i < 50; i++ {
		if resp, err = http.Get("http://" + addr); err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never answered: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", resp.StatusCode)
	}

	if err := s.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err, ok := <-s.Notify(); ok {
		t.Fatalf("expected a clean close, got %v", err)
	}
}

func TestNotifyListenError(t *testing.T) {
	s := New(http.NotFoundHandler(), "256.0.0.1:bad")

	select {
	case err := <-s.Notify():
		if err == nil {
			t.Fatal("expected a listen error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no error reported")
	}
}
