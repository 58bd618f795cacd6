// Package push carries unsolicited server updates for one session: a
// websocket subscription decodes messages into events, and a stateless
// router demultiplexes them into the session-replace path or the live
// merge path.
package push

import (
	"parley/internal/live"
	"parley/internal/types"
)

// Router branches each inbound event on its type tag. It holds no
// buffers and performs no retries; it is invoked once per message and
// reconnection is the subscription owner's concern.
type Router struct {
	sessionID string
	merger    *live.Merger
	replace   func(*types.Session, uint64)
}

// NewRouter wires a router for one subscribed session. The replace
// callback receives the authoritative snapshot together with the
// generation of the subscription that delivered it.
func NewRouter(sessionID string, merger *live.Merger, replace func(*types.Session, uint64)) *Router {
	return &Router{
		sessionID: sessionID,
		merger:    merger,
		replace:   replace,
	}
}

// Route dispatches one event. It reports whether the event mutated any
// local state. Unknown type tags and events correlated to a different
// session are ignored.
func (r *Router) Route(event types.Event) bool {
	if r == nil {
		return false
	}
	if event.SessionID != "" && event.SessionID != r.sessionID {
		return false
	}
	switch event.Type {
	case types.EventTypeSessionUpdate:
		if event.Session == nil || event.Session.ID != r.sessionID {
			return false
		}
		if r.replace != nil {
			r.replace(event.Session, event.Generation)
		}
		return true
	case types.EventTypeWorkerTaskResponse:
		return r.merger.Apply(event)
	default:
		return false
	}
}
