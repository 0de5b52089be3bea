package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandleHealthCheck(t *testing.T) {
	setupSealer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	HandleHealthCheck(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["sealer"] != "ok" {
		t.Errorf("expected sealer ok, got %v", body["sealer"])
	}

	// No databases in tests: both report their error state rather than
	// failing the endpoint.
	for _, dep := range []string{"redis", "postgres"} {
		status, _ := body[dep].(string)
		if !strings.HasPrefix(status, "error:") {
			t.Errorf("expected %s error status without a connection, got %q", dep, status)
		}
	}
}

func TestHandleHealthCheckRejectsPost(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	w := httptest.NewRecorder()
	HandleHealthCheck(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}
