package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"parley/internal/types"
)

func TestSubmitInputSendsFormAndDecodesSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/v1/sessions/s1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization = %q", got)
		}
		if got := r.Header.Get("X-Request-ID"); got == "" {
			t.Errorf("missing request id")
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostFormValue("input"); got != "hello" {
			t.Errorf("input = %q", got)
		}
		_ = json.NewEncoder(w).Encode(types.Session{ID: "s1", Owner: "bob"})
	}))
	defer server.Close()

	c := New(server.URL, "tok")
	session, err := c.SubmitInput(context.Background(), "s1", "hello")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if session.ID != "s1" || session.Owner != "bob" {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestCloneInteractionPath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		_ = json.NewEncoder(w).Encode(types.Session{ID: "s2"})
	}))
	defer server.Close()

	c := New(server.URL, "")
	session, err := c.CloneInteraction(context.Background(), "s1", "i7", types.CloneModeAll)
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	if session.ID != "s2" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if gotPath != "/api/v1/sessions/s1/finetune/clone/i7/all" {
		t.Fatalf("path = %s", gotPath)
	}
}

func TestCloneInteractionRequiresInteractionID(t *testing.T) {
	c := New("http://127.0.0.1:0", "")
	if _, err := c.CloneInteraction(context.Background(), "s1", "", types.CloneModeAll); err == nil {
		t.Fatalf("expected error for empty interaction id")
	}
}

func TestErrorResponseDecodesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"not your session"}`))
	}))
	defer server.Close()

	c := New(server.URL, "tok")
	_, err := c.Restart(context.Background(), "s1")
	apiErr := AsAPIError(err)
	if apiErr == nil {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusForbidden || apiErr.Message != "not your session" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestViewerUnauthenticatedIsZeroViewer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := New(server.URL, "")
	viewer, err := c.Viewer(context.Background())
	if err != nil {
		t.Fatalf("viewer: %v", err)
	}
	if viewer.Authenticated() {
		t.Fatalf("expected zero viewer, got %+v", viewer)
	}
}
