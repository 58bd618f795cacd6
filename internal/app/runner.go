package app

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"parley/internal/coordinator"
	"parley/internal/types"
)

// snapshot is the coordinator state the update loop renders from. The
// coordinator itself is only touched under the runner's lock.
type snapshot struct {
	session  *types.Session
	sessions []*types.Session
	state    coordinator.State
	viewer   types.Viewer
}

// actionRunner serializes coordinator calls. Remote actions run inside
// tea commands on their own goroutines; the coordinator expects to be
// driven from one event loop, so the runner provides that loop's
// exclusion instead.
type actionRunner struct {
	mu sync.Mutex
	co *coordinator.Coordinator
}

func newActionRunner(co *coordinator.Coordinator) *actionRunner {
	return &actionRunner{co: co}
}

// do runs one coordinator call on a command goroutine and reports the
// resulting snapshot back to the update loop.
func (r *actionRunner) do(fn func(context.Context, *coordinator.Coordinator)) tea.Cmd {
	return func() tea.Msg {
		r.mu.Lock()
		defer r.mu.Unlock()
		fn(context.Background(), r.co)
		return actionDoneMsg{snap: r.snapLocked()}
	}
}

// sync runs a coordinator call on the caller's goroutine, for the cheap
// local mutations the update loop performs directly.
func (r *actionRunner) sync(fn func(*coordinator.Coordinator)) snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.co)
	return r.snapLocked()
}

func (r *actionRunner) snapshot() snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapLocked()
}

func (r *actionRunner) snapLocked() snapshot {
	return snapshot{
		session:  r.co.Session(),
		sessions: r.co.Sessions(),
		state:    r.co.State(),
		viewer:   r.co.Viewer(),
	}
}
