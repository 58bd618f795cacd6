package app

import "testing"

func TestStatusSinkTakeDrains(t *testing.T) {
	s := &statusSink{}
	if _, _, ok := s.take(); ok {
		t.Fatalf("expected empty sink")
	}
	s.Error("boom")
	s.Success("done")
	msg, isErr, ok := s.take()
	if !ok || msg != "done" || isErr {
		t.Fatalf("expected latest message to win, got msg=%q isErr=%v ok=%v", msg, isErr, ok)
	}
	if _, _, ok := s.take(); ok {
		t.Fatalf("expected sink drained after take")
	}
}

func TestNavSinkTakeResets(t *testing.T) {
	n := &navSink{}
	n.NavigateToSession("ses_2", true)
	target, addDocs, openDocs, ok := n.take()
	if !ok || target != "ses_2" || !addDocs || openDocs {
		t.Fatalf("unexpected nav state: %q %v %v %v", target, addDocs, openDocs, ok)
	}
	if _, _, _, ok := n.take(); ok {
		t.Fatalf("expected nav sink drained")
	}

	n.OpenAddDocuments()
	target, addDocs, openDocs, ok = n.take()
	if !ok || target != "" || addDocs || !openDocs {
		t.Fatalf("unexpected docs state: %q %v %v %v", target, addDocs, openDocs, ok)
	}
}

func TestLoginSinkSticky(t *testing.T) {
	l := &loginSink{}
	if l.Requested() {
		t.Fatalf("expected no login request yet")
	}
	l.BeginLogin()
	if !l.Requested() {
		t.Fatalf("expected login request recorded")
	}
}
