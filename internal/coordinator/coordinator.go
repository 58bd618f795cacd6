// Package coordinator orchestrates every user-initiated session action.
// Each action runs through the ownership gate first; actions a viewer is
// not yet allowed to run are either parked behind a clone confirmation
// or saved to the pending store across a login round trip and replayed
// when the viewer comes back authenticated.
package coordinator

import (
	"context"
	"errors"
	"strings"

	"parley/internal/gate"
	"parley/internal/logging"
	"parley/internal/pending"
	"parley/internal/types"
)

// SessionAPI is the remote service surface the coordinator mutates
// through. *client.Client satisfies it.
type SessionAPI interface {
	SubmitInput(ctx context.Context, id, input string) (*types.Session, error)
	Restart(ctx context.Context, id string) (*types.Session, error)
	CloneInteraction(ctx context.Context, id, interactionID string, mode types.CloneMode) (*types.Session, error)
	UpdateConfig(ctx context.Context, id string, config types.SessionConfig) (*types.Session, error)
	LoadSession(ctx context.Context, id string) (*types.Session, error)
	ListSessions(ctx context.Context) ([]*types.Session, error)
}

// Notifier is the message surface shown to the viewer.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Navigator moves the viewer between sessions and opens the
// add-documents surface.
type Navigator interface {
	NavigateToSession(id string, addDocuments bool)
	OpenAddDocuments()
}

// LoginStarter begins the external authentication flow. It does not
// return; resumption is detected later through ViewerChanged.
type LoginStarter interface {
	BeginLogin()
}

// State is the coordinator's position in the deferred-action flow.
type State int

const (
	StateIdle State = iota
	StateAwaitingLogin
	StateAwaitingCloneConfirm
	StateAwaitingRemote
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingLogin:
		return "awaiting_login"
	case StateAwaitingCloneConfirm:
		return "awaiting_clone_confirm"
	case StateAwaitingRemote:
		return "awaiting_remote"
	default:
		return "unknown"
	}
}

type Coordinator struct {
	api     SessionAPI
	pending pending.Store
	notify  Notifier
	nav     Navigator
	login   LoginStarter
	log     logging.Logger

	session  *types.Session
	sessions []*types.Session
	viewer   types.Viewer

	state State
	held  types.Instruction
}

// New wires a coordinator. All collaborators are required except the
// logger. Methods are meant to be driven from a single event loop; the
// design relies on re-running the gate per action and on authoritative
// server snapshots, not on mutual exclusion.
func New(api SessionAPI, pendingStore pending.Store, notify Notifier, nav Navigator, login LoginStarter, log logging.Logger) *Coordinator {
	if log == nil {
		log = logging.Nop()
	}
	return &Coordinator{
		api:     api,
		pending: pendingStore,
		notify:  notify,
		nav:     nav,
		login:   login,
		log:     log,
	}
}

func (c *Coordinator) State() State {
	return c.state
}

func (c *Coordinator) Session() *types.Session {
	return c.session
}

func (c *Coordinator) Sessions() []*types.Session {
	return c.sessions
}

func (c *Coordinator) Viewer() types.Viewer {
	return c.viewer
}

// ReplaceSession installs an authoritative snapshot, discarding any
// local partial state. Both the push session-update path and remote
// call completions land here.
func (c *Coordinator) ReplaceSession(session *types.Session) {
	c.session = session
}

// RefreshSession reloads the current session snapshot from the server.
func (c *Coordinator) RefreshSession(ctx context.Context) {
	if c.session == nil {
		return
	}
	session, err := c.api.LoadSession(ctx, c.session.ID)
	if err != nil {
		c.log.Warn("session reload failed", logging.F("err", err))
		return
	}
	c.session = session
}

// Send submits an inference prompt against the current session.
func (c *Coordinator) Send(ctx context.Context, prompt string) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return
	}
	if !c.guard(types.Instruction{InferencePrompt: prompt}) {
		return
	}
	c.state = StateAwaitingRemote
	session, err := c.api.SubmitInput(ctx, c.session.ID, prompt)
	c.state = StateIdle
	if err != nil {
		c.surface("send failed", err)
		return
	}
	c.session = session
}

// Restart triggers the destructive server-side restart. The caller is
// expected to have confirmed with the viewer already; no local replay of
// interaction state is attempted, the refreshed snapshot is
// authoritative.
func (c *Coordinator) Restart(ctx context.Context) {
	if !c.guard(types.Instruction{}) {
		return
	}
	c.state = StateAwaitingRemote
	session, err := c.api.Restart(ctx, c.session.ID)
	c.state = StateIdle
	if err != nil {
		c.surface("restart failed", err)
		return
	}
	c.session = session
	c.notify.Success("Session restarted")
}

// SetShared toggles the session's shared flag.
func (c *Coordinator) SetShared(ctx context.Context, shared bool) {
	if !c.guard(types.Instruction{}) {
		return
	}
	if c.session.Config.Shared == shared {
		return
	}
	c.state = StateAwaitingRemote
	config := c.session.Config
	config.Shared = shared
	session, err := c.api.UpdateConfig(ctx, c.session.ID, config)
	c.state = StateIdle
	if err != nil {
		c.surface("sharing update failed", err)
		return
	}
	if session != nil {
		c.session = session
	}
	if shared {
		c.notify.Success("Session shared")
	} else {
		c.notify.Success("Session no longer shared")
	}
}

// AddDocuments opens the add-documents surface for a fine-tune session.
func (c *Coordinator) AddDocuments(ctx context.Context) {
	if !c.guard(types.Instruction{AddDocuments: true}) {
		return
	}
	c.nav.OpenAddDocuments()
}

// Clone copies the session from a specific interaction into the
// viewer's account.
func (c *Coordinator) Clone(ctx context.Context, interactionID string, mode types.CloneMode) {
	instruction := types.Instruction{
		CloneMode:          mode,
		CloneInteractionID: interactionID,
	}
	if !c.guard(instruction) {
		return
	}
	c.performClone(ctx, instruction)
}

// ConfirmPending resolves whichever prompt the coordinator raised. For
// a login prompt the held instruction is saved durably and the external
// login flow takes over; for a clone prompt the clone runs now.
func (c *Coordinator) ConfirmPending(ctx context.Context) {
	switch c.state {
	case StateAwaitingLogin:
		if err := c.pending.Save(ctx, c.held); err != nil {
			c.surface("could not save your request", err)
			c.reset()
			return
		}
		c.held = types.Instruction{}
		c.login.BeginLogin()
	case StateAwaitingCloneConfirm:
		instruction := c.held
		c.reset()
		c.performClone(ctx, instruction)
	}
}

// CancelPending abandons the raised prompt.
func (c *Coordinator) CancelPending() {
	if c.state == StateAwaitingLogin || c.state == StateAwaitingCloneConfirm {
		c.reset()
	}
}

// ViewerChanged records the new viewer and, on a transition to an
// authenticated viewer with a session loaded, consumes the pending slot
// and replays the instruction. The login that just succeeded counts as
// implicit confirmation, so the clone runs without re-prompting.
func (c *Coordinator) ViewerChanged(ctx context.Context, viewer types.Viewer) {
	c.viewer = viewer
	if !viewer.Authenticated() || c.session == nil {
		return
	}
	instruction, ok, err := c.pending.Take(ctx, true)
	if err != nil {
		c.log.Warn("pending instruction read failed", logging.F("err", err))
		return
	}
	if !ok {
		return
	}
	c.log.Info("replaying deferred instruction", logging.F("session_id", c.session.ID))
	decision, err := gate.Decide(c.session, c.viewer)
	if err != nil {
		return
	}
	switch decision {
	case gate.Proceed:
		c.replay(ctx, instruction)
	case gate.RequireClone:
		c.performClone(ctx, instruction)
	default:
		// Take only returns for an authenticated viewer, so a login
		// requirement here means the instruction is unactionable; drop it.
	}
}

// guard runs the ownership gate for one instruction. It returns true
// when the action may run now. Otherwise the instruction is held and the
// state moves to the matching prompt; a zero instruction has nothing to
// defer or clone, so it aborts silently.
func (c *Coordinator) guard(instruction types.Instruction) bool {
	decision, err := gate.Decide(c.session, c.viewer)
	if err != nil {
		if !errors.Is(err, gate.ErrNoSession) {
			c.log.Warn("gate error", logging.F("err", err))
		}
		return false
	}
	switch decision {
	case gate.Proceed:
		return true
	case gate.RequireLogin:
		if instruction.IsZero() {
			return false
		}
		c.held = instruction
		c.state = StateAwaitingLogin
		return false
	case gate.RequireClone:
		if instruction.IsZero() {
			return false
		}
		c.held = instruction
		c.state = StateAwaitingCloneConfirm
		return false
	default:
		return false
	}
}

// replay runs an instruction that the gate already allows outright.
func (c *Coordinator) replay(ctx context.Context, instruction types.Instruction) {
	switch {
	case instruction.InferencePrompt != "":
		c.Send(ctx, instruction.InferencePrompt)
	case instruction.AddDocuments:
		c.nav.OpenAddDocuments()
	case instruction.CloneInteractionID != "":
		c.performClone(ctx, instruction)
	}
}

// performClone runs the cloning algorithm: resolve the source
// interaction, clone, replay the residual effect against the new
// session, refresh the list, navigate. The source session is never
// touched.
func (c *Coordinator) performClone(ctx context.Context, instruction types.Instruction) {
	if c.session == nil {
		return
	}
	interactionID := instruction.CloneInteractionID
	mode := instruction.CloneMode
	if interactionID == "" {
		system := c.session.SystemInteraction()
		if system == nil {
			c.log.Warn("no system interaction to clone from", logging.F("session_id", c.session.ID))
			return
		}
		interactionID = system.ID
		mode = types.CloneModeAll
	}
	if mode == "" {
		mode = types.CloneModeAll
	}

	c.state = StateAwaitingRemote
	newSession, err := c.api.CloneInteraction(ctx, c.session.ID, interactionID, mode)
	c.state = StateIdle
	if err != nil {
		c.surface("clone failed", err)
		return
	}

	if instruction.InferencePrompt != "" {
		updated, err := c.api.SubmitInput(ctx, newSession.ID, instruction.InferencePrompt)
		if err != nil {
			c.surface("prompt replay failed", err)
			return
		}
		newSession = updated
	}

	c.refreshSessions(ctx)
	c.notify.Success("Session cloned")
	c.nav.NavigateToSession(newSession.ID, instruction.AddDocuments)
}

func (c *Coordinator) refreshSessions(ctx context.Context) {
	sessions, err := c.api.ListSessions(ctx)
	if err != nil {
		c.log.Warn("session list refresh failed", logging.F("err", err))
		return
	}
	c.sessions = sessions
}

func (c *Coordinator) surface(prefix string, err error) {
	c.log.Warn(prefix, logging.F("err", err))
	c.notify.Error(prefix + ": " + err.Error())
}

func (c *Coordinator) reset() {
	c.state = StateIdle
	c.held = types.Instruction{}
}
