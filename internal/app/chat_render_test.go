package app

import (
	"strings"
	"testing"
	"time"

	xansi "github.com/charmbracelet/x/ansi"

	"parley/internal/live"
	"parley/internal/types"
)

func renderSession(mode types.SessionMode, interactions ...*types.Interaction) *types.Session {
	return &types.Session{
		ID:           "ses_1",
		Owner:        "user_a",
		Mode:         mode,
		Type:         types.SessionTypeText,
		Interactions: interactions,
		Created:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestRenderTranscriptShowsBothSpeakers(t *testing.T) {
	session := renderSession(types.SessionModeInference,
		&types.Interaction{ID: "i1", Creator: types.CreatorUser, Message: "hello there", State: types.InteractionStateComplete, Finished: true},
		&types.Interaction{ID: "i2", Creator: types.CreatorSystem, Message: "hi back", State: types.InteractionStateComplete, Finished: true},
	)
	out := xansi.Strip(renderTranscript(session, nil, 80))
	if !strings.Contains(out, "hello there") {
		t.Fatalf("expected user message in transcript, got %q", out)
	}
	if !strings.Contains(out, "hi back") {
		t.Fatalf("expected assistant message in transcript, got %q", out)
	}
	if !strings.Contains(out, "you") || !strings.Contains(out, "assistant") {
		t.Fatalf("expected speaker labels, got %q", out)
	}
}

func TestRenderTranscriptLiveViewReplacesStreamingBody(t *testing.T) {
	session := renderSession(types.SessionModeInference,
		&types.Interaction{ID: "i1", Creator: types.CreatorSystem, Message: "partial", State: types.InteractionStateWaiting},
	)
	view := &live.View{SessionID: "ses_1", InteractionID: "i1", Message: "partial and more"}
	out := xansi.Strip(renderTranscript(session, view, 80))
	if !strings.Contains(out, "partial and more") {
		t.Fatalf("expected live message body, got %q", out)
	}
}

func TestRenderTranscriptShowsErrorState(t *testing.T) {
	session := renderSession(types.SessionModeInference,
		&types.Interaction{ID: "i1", Creator: types.CreatorSystem, State: types.InteractionStateError, Error: "model exploded"},
	)
	out := xansi.Strip(renderTranscript(session, nil, 80))
	if !strings.Contains(out, "model exploded") {
		t.Fatalf("expected error text, got %q", out)
	}
}

func TestRenderTranscriptProgressBadge(t *testing.T) {
	session := renderSession(types.SessionModeFinetune,
		&types.Interaction{ID: "i1", Creator: types.CreatorSystem, State: types.InteractionStateWaiting, Progress: 40, Status: "indexing documents"},
	)
	out := xansi.Strip(renderTranscript(session, nil, 80))
	if !strings.Contains(out, "40%") || !strings.Contains(out, "indexing documents") {
		t.Fatalf("expected progress badge, got %q", out)
	}
}

func TestRenderTranscriptNilSession(t *testing.T) {
	out := xansi.Strip(renderTranscript(nil, nil, 80))
	if !strings.Contains(out, "no session") {
		t.Fatalf("expected placeholder, got %q", out)
	}
}

func TestProgressBadgeFieldsIndependent(t *testing.T) {
	if got := xansi.Strip(progressBadge(0, "queued")); got != "queued" {
		t.Fatalf("expected status-only badge, got %q", got)
	}
	if got := xansi.Strip(progressBadge(30, "")); got != "30%" {
		t.Fatalf("expected progress-only badge, got %q", got)
	}
	if got := progressBadge(0, ""); got != "" {
		t.Fatalf("expected empty badge, got %q", got)
	}
}
