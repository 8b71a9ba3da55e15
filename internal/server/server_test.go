package server

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"trendscout/internal/config"
)

func TestErrorHandlerReturnsJSON(t *testing.T) {
	srv := New(&config.Config{ServerAddr: ":0", BaseURL: "http://localhost"})

	resp, err := srv.App.Test(httptest.NewRequest("GET", "/no/such/route", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Success {
		t.Error("success = true on an error response")
	}
	if body.Error == "" {
		t.Error("error message is empty")
	}
}

func TestLivenessRoute(t *testing.T) {
	srv := New(&config.Config{ServerAddr: ":0", BaseURL: "http://localhost"})
	srv.RegisterRoutes(nil, nil, nil)

	resp, err := srv.App.Test(httptest.NewRequest("GET", "/healthz", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
