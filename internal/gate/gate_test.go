package gate

import (
	"errors"
	"testing"

	"parley/internal/types"
)

func TestDecideNoSession(t *testing.T) {
	_, err := Decide(nil, types.Viewer{ID: "alice"})
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestDecideLoginPrecedesOwnership(t *testing.T) {
	session := &types.Session{ID: "s1", Owner: "bob"}

	cases := []struct {
		name   string
		viewer types.Viewer
		want   Decision
	}{
		{"unauthenticated non-owner", types.Viewer{}, RequireLogin},
		{"unauthenticated admin flag ignored", types.Viewer{Admin: true}, RequireLogin},
		{"authenticated non-owner", types.Viewer{ID: "alice"}, RequireClone},
		{"owner", types.Viewer{ID: "bob"}, Proceed},
		{"admin non-owner", types.Viewer{ID: "alice", Admin: true}, Proceed},
	}
	for _, tc := range cases {
		got, err := Decide(session, tc.viewer)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestDecideIsPure(t *testing.T) {
	session := &types.Session{ID: "s1", Owner: "bob"}
	viewer := types.Viewer{ID: "alice"}
	first, _ := Decide(session, viewer)
	second, _ := Decide(session, viewer)
	if first != second {
		t.Fatalf("decision changed between calls: %s then %s", first, second)
	}
	if session.Owner != "bob" {
		t.Fatalf("session mutated by decide")
	}
}
