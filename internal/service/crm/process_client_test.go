package crm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFunctionClientInvoke(t *testing.T) {
	var gotPath string
	var gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"processed":12,"sent":10,"failed":2}`))
	}))
	defer server.Close()

	client := NewFunctionClient(server.URL)
	result, err := client.Invoke(context.Background(), "process-notifications", map[string]string{"trigger": "test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/process-notifications" {
		t.Errorf("path = %q", gotPath)
	}
	if !strings.Contains(gotBody, `"trigger":"test"`) {
		t.Errorf("body = %q", gotBody)
	}
	if !result.Success || result.Processed != 12 || result.Sent != 10 || result.Failed != 2 {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestFunctionClientInvoke5xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewFunctionClient(server.URL)
	_, err := client.Invoke(context.Background(), "process-notifications", nil)
	if err == nil {
		t.Fatal("expected error for 5xx response")
	}
	if !strings.Contains(err.Error(), "functions gateway returned 5xx") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestFunctionClientBreakerTripsOnRepeatedFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewFunctionClient(server.URL)
	for i := 0; i < 6; i++ {
		client.Invoke(context.Background(), "process-notifications", nil)
	}

	_, err := client.Invoke(context.Background(), "process-notifications", nil)
	if err == nil || !strings.Contains(err.Error(), "circuit breaker is open") {
		t.Errorf("expected breaker to trip after repeated failures, got %v", err)
	}
}
