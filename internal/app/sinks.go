package app

import "sync"

// statusSink is the snackbar surface the coordinator notifies through.
// Coordinator calls run inside tea commands, so the sink is the one
// place that needs a lock; the update loop drains it afterwards.
type statusSink struct {
	mu    sync.Mutex
	msg   string
	isErr bool
	set   bool
}

func (s *statusSink) Success(msg string) { s.put(msg, false) }
func (s *statusSink) Error(msg string)   { s.put(msg, true) }

func (s *statusSink) put(msg string, isErr bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msg = msg
	s.isErr = isErr
	s.set = true
}

func (s *statusSink) take() (string, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return "", false, false
	}
	msg, isErr := s.msg, s.isErr
	s.set = false
	return msg, isErr, true
}

// navSink records where the coordinator wants the viewer to go.
type navSink struct {
	mu       sync.Mutex
	target   string
	addDocs  bool
	openDocs bool
	set      bool
}

func (n *navSink) NavigateToSession(id string, addDocuments bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.target = id
	n.addDocs = addDocuments
	n.set = true
}

func (n *navSink) OpenAddDocuments() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.openDocs = true
	n.set = true
}

func (n *navSink) take() (target string, addDocs, openDocs, ok bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.set {
		return "", false, false, false
	}
	target, addDocs, openDocs = n.target, n.addDocs, n.openDocs
	n.target = ""
	n.addDocs = false
	n.openDocs = false
	n.set = false
	return target, addDocs, openDocs, true
}

// loginSink records that the coordinator handed control to the external
// login flow; the program exits and prints instructions.
type loginSink struct {
	mu        sync.Mutex
	requested bool
}

func (l *loginSink) BeginLogin() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requested = true
}

func (l *loginSink) Requested() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.requested
}
