package app

import (
	"parley/internal/push"
	"parley/internal/types"
)

type viewerMsg struct {
	viewer types.Viewer
	err    error
}

type sessionMsg struct {
	session *types.Session
	err     error
}

type subscribedMsg struct {
	sub *push.Subscription
	err error
}

// pushEventMsg carries one decoded push event together with the
// subscription it came from, so events from a superseded subscription
// can be dropped instead of triggering a reconnect loop.
type pushEventMsg struct {
	sub   *push.Subscription
	event types.Event
	ok    bool
}

// actionDoneMsg is emitted after a coordinator call finishes on a
// command goroutine; the update loop installs the snapshot, drains the
// notification and navigation sinks and raises whichever prompt the
// coordinator is waiting on.
type actionDoneMsg struct {
	snap snapshot
}
