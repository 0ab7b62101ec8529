package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"todocli/internal/api"
)

func TestLoginSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/token" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if got := r.PostForm.Get("username"); got != "a@b.com" {
			t.Errorf("expected username a@b.com, got %q", got)
		}
		if got := r.PostForm.Get("password"); got != "secret1" {
			t.Errorf("expected password secret1, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "tok123",
			"token_type":   "bearer",
		})
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	user, err := client.Login(context.Background(), "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Email != "a@b.com" || user.Token != "tok123" {
		t.Errorf("unexpected user %+v", user)
	}
}

func TestLoginRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"})
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	_, err := client.Login(context.Background(), "a@b.com", "wrongpw")
	if !errors.Is(err, api.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := api.New(srv.URL)
	_, err := client.Login(context.Background(), "a@b.com", "secret1")

	var netErr *api.NetworkError
	if !errors.As(err, &netErr) {
		t.Errorf("expected NetworkError, got %v", err)
	}
}

func TestRegisterWeakPasswordSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	_, err := client.Register(context.Background(), "a@b.com", "12345")
	if !errors.Is(err, api.ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
	if hits.Load() != 0 {
		t.Errorf("expected no network call, got %d", hits.Load())
	}
}

func TestRegisterChainsIntoLogin(t *testing.T) {
	var registered atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/register":
			var body struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode register body: %v", err)
			}
			if body.Email != "a@b.com" || body.Password != "secret1" {
				t.Errorf("unexpected register body %+v", body)
			}
			registered.Store(true)
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"id": "1", "email": body.Email})
		case "/token":
			if !registered.Load() {
				t.Error("login reached before registration")
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok123"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	user, err := client.Register(context.Background(), "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Token != "tok123" {
		t.Errorf("expected chained login token, got %q", user.Token)
	}
}

func TestRegisterRejectedCarriesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "REGISTER_USER_ALREADY_EXISTS"})
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	_, err := client.Register(context.Background(), "a@b.com", "secret1")

	var regErr *api.RegistrationRejectedError
	if !errors.As(err, &regErr) {
		t.Fatalf("expected RegistrationRejectedError, got %v", err)
	}
	if regErr.Detail != "REGISTER_USER_ALREADY_EXISTS" {
		t.Errorf("unexpected detail %q", regErr.Detail)
	}
}

func TestFetchProfileSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("expected bearer header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"email":           "a@b.com",
			"hashed_password": "h1",
		})
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	profile, err := client.FetchProfile(context.Background(), "tok123")
	if err != nil {
		t.Fatalf("FetchProfile failed: %v", err)
	}
	if profile.Email != "a@b.com" || profile.Token != "h1" {
		t.Errorf("unexpected profile %+v", profile)
	}
}

func TestFetchProfileDetailBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	_, err := client.FetchProfile(context.Background(), "stale")

	var profErr *api.ProfileUnavailableError
	if !errors.As(err, &profErr) {
		t.Fatalf("expected ProfileUnavailableError, got %v", err)
	}
	if profErr.Detail != "Could not validate credentials" {
		t.Errorf("unexpected detail %q", profErr.Detail)
	}
}

func TestFetchProfileNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := api.New(srv.URL)
	_, err := client.FetchProfile(context.Background(), "tok123")

	var netErr *api.NetworkError
	if !errors.As(err, &netErr) {
		t.Errorf("expected NetworkError, got %v", err)
	}
}

func TestFetchTasksStatuses(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantTasks  int
	}{
		{"loaded", http.StatusOK, `[{"id":"1","num":1,"title":"t","description":"d","created_at":"2024-01-01","status":false}]`, http.StatusOK, 1},
		{"unauthorized", http.StatusUnauthorized, `{"detail":"Could not validate credentials"}`, http.StatusUnauthorized, 0},
		{"server error", http.StatusInternalServerError, `oops`, http.StatusInternalServerError, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := api.New(srv.URL)
			tasks, status, err := client.FetchTasks(context.Background(), "tok123")
			if err != nil {
				t.Fatalf("FetchTasks failed: %v", err)
			}
			if status != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, status)
			}
			if len(tasks) != tt.wantTasks {
				t.Errorf("expected %d tasks, got %d", tt.wantTasks, len(tasks))
			}
		})
	}
}

func TestUpdateTaskSendsFullRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/tasks/5" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var rec api.TaskRecord
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		want := api.TaskRecord{Num: 5, Title: "Old title", Description: "new text", Status: true}
		if rec != want {
			t.Errorf("expected %+v, got %+v", want, rec)
		}
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	err := client.UpdateTask(context.Background(), "tok123", "5", api.TaskRecord{
		Num: 5, Title: "Old title", Description: "new text", Status: true,
	})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
}

func TestUpdateTaskStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	err := client.UpdateTask(context.Background(), "tok123", "5", api.TaskRecord{})

	var statusErr *api.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusInternalServerError {
		t.Errorf("expected code 500, got %d", statusErr.Code)
	}
}

func TestDeleteTask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/tasks/5" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	if err := client.DeleteTask(context.Background(), "tok123", "5"); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
}

func TestDeleteTaskNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	err := client.DeleteTask(context.Background(), "tok123", "missing")

	var statusErr *api.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", statusErr.Code)
	}
	if statusErr.Unauthorized() {
		t.Error("404 should not read as unauthorized")
	}
}
