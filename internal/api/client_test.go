package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPTimeoutFromEnv(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "default", value: "", want: defaultHTTPTimeout},
		{name: "duration format", value: "45s", want: 45 * time.Second},
		{name: "integer seconds", value: "25", want: 25 * time.Second},
		{name: "invalid falls back", value: "invalid", want: defaultHTTPTimeout},
		{name: "negative falls back", value: "-5", want: defaultHTTPTimeout},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(httpTimeoutEnvKey, tc.value)
			if got := httpTimeoutFromEnv(); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth, gotPath, gotStatus string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		var req TaskMoveRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotStatus = req.Status
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"t1","status":"DOING","developerName":"Bob"}`))
	}))
	defer srv.Close()

	t.Setenv(apiTokenEnvKey, "")
	client := NewClient(srv.URL + "/").WithToken("secret")
	task, err := client.MoveTask(context.Background(), "t1", "DOING")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotPath != "/v1/tasks/t1/move" || gotStatus != "DOING" {
		t.Fatalf("unexpected request path=%s status=%s", gotPath, gotStatus)
	}
	if task.ID != "t1" || task.DeveloperName != "Bob" {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestClientDecodesErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"must execute tasks in declared order","code":"conflict","error_code":2104}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).DeleteTask(context.Background(), "t1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.ErrorCode != 2104 {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
	if apiErr.Error() != "conflict: must execute tasks in declared order" {
		t.Fatalf("unexpected message %q", apiErr.Error())
	}
}
