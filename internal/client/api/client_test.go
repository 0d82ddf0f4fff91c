package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data any, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"success": success, "message": message, "data": data, "error": nil}
	if errMsg != "" {
		body["error"] = errMsg
	}
	_ = json.NewEncoder(w).Encode(body)
}

func TestClient_CookiePersistsAcrossCalls(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /user/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "session-1", Path: "/"})
		writeEnvelope(w, http.StatusOK, true, "Login success",
			map[string]string{"id": "u1", "username": "alice", "email": "alice@x.com"}, "")
	})
	mux.HandleFunc("GET /user/me", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("token")
		if err != nil || cookie.Value != "session-1" {
			writeEnvelope(w, http.StatusUnauthorized, false, "Authentication failed", nil, "not logged in")
			return
		}
		writeEnvelope(w, http.StatusOK, true, "User fetched successfully",
			map[string]string{"id": "u1", "username": "alice", "email": "alice@x.com"}, "")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	ctx := context.Background()

	// Unauthenticated identity check reports a 401 application error.
	_, err = client.CurrentUser(ctx)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)

	user, err := client.Login(ctx, "alice@x.com", "password")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)

	// The jar carries the session cookie into the next call.
	user, err = client.CurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, "u1", user.ID)
}

func TestClient_ApplicationErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusConflict, false, "Registration failed", nil, "email already exists")
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	_, err = client.Register(context.Background(), "alice", "alice@x.com", "password")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.Status)
	require.Equal(t, "email already exists", apiErr.Message)
}

func TestClient_CancellationIsNotAnApplicationError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		writeEnvelope(w, http.StatusOK, true, "Tasks fetched successfully", []any{}, "")
	}))
	defer srv.Close()
	defer close(release)

	client, err := New(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err = client.Tasks(ctx)
	require.Error(t, err)
	var apiErr *Error
	require.False(t, errors.As(err, &apiErr), "cancellation must not surface as an application error")
	require.ErrorIs(t, err, context.Canceled)
}

func TestClient_DecodesTaskData(t *testing.T) {
	due := time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusCreated, true, "Task created", map[string]any{
			"id": "t1", "title": "T", "description": "D", "status": "NOT_STARTED",
			"dueDate": due.Format(time.RFC3339), "userId": "u1",
			"createdAt": due.Format(time.RFC3339), "updatedAt": due.Format(time.RFC3339),
		}, "")
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	task, err := client.CreateTask(context.Background(), TaskInput{Title: "T", Description: "D"})
	require.NoError(t, err)
	require.Equal(t, "t1", task.ID)
	require.Equal(t, "NOT_STARTED", task.Status)
	require.NotNil(t, task.DueDate)
	require.True(t, task.DueDate.Equal(due))
}
