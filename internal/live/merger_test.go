package live

import (
	"testing"

	"parley/internal/types"
)

func streamingSession() *types.Session {
	return &types.Session{
		ID:    "s1",
		Owner: "bob",
		Interactions: []*types.Interaction{
			{ID: "i1", Creator: types.CreatorUser, Message: "question", Finished: true, State: types.InteractionStateComplete},
			{ID: "i2", Creator: types.CreatorSystem, Message: "ab", Progress: 40, State: types.InteractionStateWaiting},
		},
	}
}

func streamEvent(generation uint64, sessionID, fragment string) types.Event {
	return types.Event{
		Type:      types.EventTypeWorkerTaskResponse,
		SessionID: sessionID,
		WorkerTaskResponse: &types.WorkerTaskResponse{
			Type:      types.WorkerTaskResponseTypeStream,
			SessionID: sessionID,
			Message:   fragment,
		},
		Generation: generation,
	}
}

func progressEvent(generation uint64, sessionID string, progress int, status string) types.Event {
	return types.Event{
		Type:      types.EventTypeWorkerTaskResponse,
		SessionID: sessionID,
		WorkerTaskResponse: &types.WorkerTaskResponse{
			Type:      types.WorkerTaskResponseTypeProgress,
			SessionID: sessionID,
			Progress:  progress,
			Status:    status,
		},
		Generation: generation,
	}
}

func TestStreamFragmentsAppendInArrivalOrder(t *testing.T) {
	merger := NewMerger()
	merger.Reset(streamingSession(), 1)

	if !merger.Apply(streamEvent(1, "s1", "cd")) {
		t.Fatalf("expected apply to change the view")
	}
	view, ok := merger.View()
	if !ok {
		t.Fatalf("expected a live view")
	}
	if view.Message != "abcd" {
		t.Fatalf("message = %q, want %q", view.Message, "abcd")
	}
}

func TestDuplicateFragmentAppendsTwice(t *testing.T) {
	merger := NewMerger()
	merger.Reset(streamingSession(), 1)

	merger.Apply(streamEvent(1, "s1", "cd"))
	merger.Apply(streamEvent(1, "s1", "cd"))
	view, _ := merger.View()
	if view.Message != "abcdcd" {
		t.Fatalf("message = %q, want %q", view.Message, "abcdcd")
	}
}

func TestProgressOnlyStatusLeavesProgressUntouched(t *testing.T) {
	merger := NewMerger()
	merger.Reset(streamingSession(), 1)

	if !merger.Apply(progressEvent(1, "s1", 0, "running")) {
		t.Fatalf("expected status update to change the view")
	}
	view, _ := merger.View()
	if view.Progress != 40 {
		t.Fatalf("progress = %d, want 40", view.Progress)
	}
	if view.Status != "running" {
		t.Fatalf("status = %q, want %q", view.Status, "running")
	}
}

func TestOutOfOrderProgressIsLastApplied(t *testing.T) {
	merger := NewMerger()
	merger.Reset(streamingSession(), 1)

	merger.Apply(progressEvent(1, "s1", 50, ""))
	merger.Apply(progressEvent(1, "s1", 30, ""))
	view, _ := merger.View()
	if view.Progress != 30 {
		t.Fatalf("progress = %d, want 30 (last applied wins)", view.Progress)
	}
}

func TestMismatchedSessionIgnored(t *testing.T) {
	merger := NewMerger()
	merger.Reset(streamingSession(), 1)

	if merger.Apply(streamEvent(1, "other", "cd")) {
		t.Fatalf("mismatched session id must not mutate the view")
	}
	view, _ := merger.View()
	if view.Message != "ab" {
		t.Fatalf("message = %q, want %q", view.Message, "ab")
	}
}

func TestStaleGenerationDiscarded(t *testing.T) {
	merger := NewMerger()
	merger.Reset(streamingSession(), 2)

	if merger.Apply(streamEvent(1, "s1", "cd")) {
		t.Fatalf("stale generation must be discarded")
	}
	if merger.Apply(streamEvent(2, "s1", "cd")) != true {
		t.Fatalf("current generation must apply")
	}
}

func TestReplaceSupersedesMergeState(t *testing.T) {
	merger := NewMerger()
	merger.Reset(streamingSession(), 1)
	merger.Apply(streamEvent(1, "s1", "cd"))

	replaced := streamingSession()
	replaced.Interactions[1].Message = "server text"
	merger.Reset(replaced, 2)

	view, ok := merger.View()
	if !ok {
		t.Fatalf("expected live view after replace")
	}
	if view.Message != "server text" {
		t.Fatalf("message = %q, want server snapshot", view.Message)
	}
}

func TestNoViewForFinishedOrEditingInteraction(t *testing.T) {
	finished := streamingSession()
	finished.Interactions[1].Finished = true
	merger := NewMerger()
	merger.Reset(finished, 1)
	if _, ok := merger.View(); ok {
		t.Fatalf("finished interaction must not be live")
	}

	editing := streamingSession()
	editing.Interactions[1].State = types.InteractionStateEditing
	merger.Reset(editing, 2)
	if _, ok := merger.View(); ok {
		t.Fatalf("editing interaction must not be live")
	}
	if merger.Apply(streamEvent(2, "s1", "cd")) {
		t.Fatalf("apply must be a no-op without a live view")
	}
}

func TestEligibleOnlyForLastInteraction(t *testing.T) {
	session := streamingSession()
	if Eligible(session, session.Interactions[0]) {
		t.Fatalf("non-last interaction must not be eligible")
	}
	if !Eligible(session, session.Interactions[1]) {
		t.Fatalf("last unfinished interaction must be eligible")
	}
}
