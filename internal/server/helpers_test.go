package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"kanban/internal/api"
	"kanban/internal/auth"
	"kanban/internal/models"
	"kanban/internal/service"
	"kanban/internal/store"
)

const testPassword = "password123"

type testServer struct {
	srv      *Server
	handler  http.Handler
	clock    time.Time
	manager  *models.User
	dev      *models.User
	dev2     *models.User
	taskType *models.TaskType
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "kanban.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	ts := &testServer{clock: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	opts := service.DefaultTaskServiceOptions()
	opts.Now = func() time.Time { return ts.clock }
	ts.srv = New("127.0.0.1:0", st, Options{
		Tasks:  opts,
		Hasher: auth.Hasher{Cost: bcrypt.MinCost},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	ts.handler = ts.srv.Handler()

	ctx := context.Background()
	mustUser := func(in service.CreateUserInput) *models.User {
		in.Password = testPassword
		user, err := ts.srv.users.CreateUser(ctx, in)
		if err != nil {
			t.Fatalf("create user %s: %v", in.Username, err)
		}
		return user
	}
	ts.manager = mustUser(service.CreateUserInput{Name: "Alice Manager", Username: "admin", Role: "MANAGER", ExperienceLevel: "SENIOR"})
	ts.dev = mustUser(service.CreateUserInput{Name: "Bob Developer", Username: "dev1", Role: "DEVELOPER", ExperienceLevel: "MID", ManagerID: ts.manager.ID})
	ts.dev2 = mustUser(service.CreateUserInput{Name: "Charlie Coder", Username: "dev2", Role: "DEVELOPER", ExperienceLevel: "JUNIOR", ManagerID: ts.manager.ID})
	ts.taskType, err = ts.srv.types.CreateTaskType(ctx, "Feature", "#3b82f6")
	if err != nil {
		t.Fatalf("create task type: %v", err)
	}
	return ts
}

// login returns a session token for username.
func (ts *testServer) login(t *testing.T, username string) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/v1/auth/login", "", api.LoginRequest{Username: username, Password: testPassword})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d (%s)", username, w.Code, w.Body.String())
	}
	var resp api.LoginResponse
	decodeBody(t, w, &resp)
	return resp.Token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func requireError(t *testing.T, w *httptest.ResponseRecorder, status, errorCode int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected %d, got %d (%s)", status, w.Code, w.Body.String())
	}
	var resp api.ErrorResponse
	decodeBody(t, w, &resp)
	if resp.ErrorCode != errorCode {
		t.Fatalf("expected error_code %d, got %d (%s)", errorCode, resp.ErrorCode, resp.Error)
	}
}

func ptr[T any](v T) *T {
	return &v
}

func httptestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func serve(ts *testServer, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}
