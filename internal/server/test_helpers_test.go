package server

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"guess-who/internal/config"
	"guess-who/internal/presets"
)

func testConfig() config.Config {
	return config.Config{
		MaxImageBytes:     1 << 20,
		UploadConcurrency: 2,
	}
}

func newTestApp(t *testing.T, svc *presets.Service) *httptest.Server {
	t.Helper()
	srv := New(Deps{Config: testConfig(), Presets: svc})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}
