package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/starford/zk/internal/service"
	"github.com/starford/zk/internal/testutil"
)

func testHandler(t *testing.T, cfg *Config) (http.Handler, *service.Service) {
	t.Helper()
	_, store := testutil.TestVault(t)
	svc := service.New(store, service.WithCatalog(testutil.TestCatalog(t)))
	return newHTTPHandler(svc, cfg), svc
}

func get(h http.Handler, target, token string) int {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Code
}

func TestHealthEndpoints(t *testing.T) {
	h, svc := testHandler(t, NewDefaultConfig())

	if code := get(h, "/health/live", ""); code != http.StatusOK {
		t.Errorf("live = %d", code)
	}
	if code := get(h, "/health/ready", ""); code != http.StatusServiceUnavailable {
		t.Errorf("ready without index = %d, want 503", code)
	}
	if err := svc.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if code := get(h, "/health/ready", ""); code != http.StatusOK {
		t.Errorf("ready = %d", code)
	}
}

func TestAPIMountedWithAuth(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth = AuthConfig{Mode: AuthModeToken, Token: "s3cret"}
	h, svc := testHandler(t, cfg)
	if err := svc.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if code := get(h, "/health/live", ""); code != http.StatusOK {
		t.Errorf("health must stay public, got %d", code)
	}
	if code := get(h, "/api/zettels", ""); code != http.StatusUnauthorized {
		t.Errorf("unauthed list = %d, want 401", code)
	}
	if code := get(h, "/api/zettels", "s3cret"); code != http.StatusOK {
		t.Errorf("authed list = %d, want 200", code)
	}
}
