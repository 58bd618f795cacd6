package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"parley/internal/coordinator"
	"parley/internal/live"
	"parley/internal/push"
	"parley/internal/types"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loader, cmd = m.loader.Update(msg)
		return m, cmd

	case sessionMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatusError("session load failed: " + msg.err.Error())
			return m, nil
		}
		snap := m.runner.sync(func(co *coordinator.Coordinator) {
			co.ReplaceSession(msg.session)
		})
		m.install(snap)
		m.sessionID = msg.session.ID
		m.refreshTranscript()
		cmds := []tea.Cmd{subscribeCmd(m.subscriber, m.sessionID)}
		if !m.viewerLoaded {
			cmds = append(cmds, loadViewerCmd(m.api))
		}
		return m, tea.Batch(cmds...)

	case viewerMsg:
		m.viewerLoaded = true
		if msg.err != nil {
			m.setStatusError("could not determine who you are: " + msg.err.Error())
			return m, nil
		}
		return m, viewerChangedCmd(m.runner, msg.viewer)

	case subscribedMsg:
		if msg.err != nil {
			m.setStatusError("live updates unavailable: " + msg.err.Error())
			return m, nil
		}
		if msg.sub.SessionID != m.sessionID {
			// Late completion for a session the viewer already left.
			msg.sub.Close()
			return m, nil
		}
		m.sub.Close()
		m.sub = msg.sub
		m.merger.Reset(m.session, msg.sub.Generation)
		m.router = push.NewRouter(m.sessionID, m.merger, m.replaceFromPush)
		return m, waitForEventCmd(m.sub)

	case pushEventMsg:
		if msg.sub != m.sub {
			// Superseded subscription; its channel drains and dies here.
			return m, nil
		}
		if !msg.ok {
			m.setStatusError("live connection lost, reconnecting")
			return m, subscribeCmd(m.subscriber, m.sessionID)
		}
		if m.router.Route(msg.event) {
			m.refreshTranscript()
		}
		return m, waitForEventCmd(m.sub)

	case actionDoneMsg:
		return m, m.afterAction(msg.snap)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.confirm.IsOpen() {
		handled, choice := m.confirm.HandleKey(msg)
		if !handled {
			return m, nil
		}
		switch choice {
		case confirmChoiceConfirm:
			return m, m.resolvePrompt()
		case confirmChoiceCancel:
			m.dismissPrompt()
		}
		return m, nil
	}

	if m.showDocs {
		switch msg.String() {
		case "esc", "enter", "q":
			m.showDocs = false
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "enter":
		prompt := strings.TrimSpace(m.input.Value())
		if prompt == "" {
			return m, nil
		}
		if reason := m.sendBlocked(); reason != "" {
			m.setStatusError(reason)
			return m, nil
		}
		m.input.Reset()
		m.busy = true
		return m, tea.Batch(sendCmd(m.runner, prompt), m.loader.Tick)
	case "ctrl+r":
		m.prompt = confirmRestart
		m.confirm.Open("Restart session?",
			"Restarting resets the model on the server. The transcript is kept.",
			"Restart", "Cancel")
		return m, nil
	case "ctrl+s":
		shared := m.session != nil && m.session.Config.Shared
		m.busy = true
		return m, tea.Batch(setSharedCmd(m.runner, !shared), m.loader.Tick)
	case "ctrl+n":
		m.busy = true
		return m, tea.Batch(cloneCmd(m.runner, "", types.CloneModeAll), m.loader.Tick)
	case "ctrl+d":
		m.busy = true
		return m, tea.Batch(addDocumentsCmd(m.runner), m.loader.Tick)
	case "ctrl+y":
		m.copyLastResponse()
		return m, nil
	case "up", "down", "pgup", "pgdown", "home", "end":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// afterAction installs the post-action snapshot, drains the sinks and
// raises whichever prompt the coordinator is now waiting on.
func (m *Model) afterAction(snap snapshot) tea.Cmd {
	m.busy = false
	m.install(snap)
	m.refreshTranscript()

	if msg, isErr, ok := m.status.take(); ok {
		if isErr {
			m.setStatusError(msg)
		} else {
			m.setStatusInfo(msg)
		}
	}

	var cmds []tea.Cmd
	if target, addDocs, openDocs, ok := m.nav.take(); ok {
		if openDocs || addDocs {
			m.showDocs = true
		}
		if target != "" && target != m.sessionID {
			m.sessionID = target
			m.sub.Close()
			m.sub = nil
			m.router = nil
			m.busy = true
			cmds = append(cmds, loadSessionCmd(m.api, target), m.loader.Tick)
		}
	}

	if m.login.Requested() {
		return tea.Quit
	}

	switch snap.state {
	case coordinator.StateAwaitingLogin:
		if m.prompt != confirmLogin {
			m.prompt = confirmLogin
			m.confirm.Open("Sign in required",
				"This session belongs to another user. Sign in to continue; your request is kept and finishes once you're back.",
				"Sign in", "Cancel")
		}
	case coordinator.StateAwaitingCloneConfirm:
		if m.prompt != confirmClone {
			m.prompt = confirmClone
			m.confirm.Open("Clone session?",
				"This session belongs to another user. Clone it into your account to continue.",
				"Clone", "Cancel")
		}
	}

	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) resolvePrompt() tea.Cmd {
	kind := m.prompt
	m.prompt = confirmNone
	m.confirm.Close()
	m.busy = true
	switch kind {
	case confirmRestart:
		return tea.Batch(restartCmd(m.runner), m.loader.Tick)
	case confirmClone, confirmLogin:
		return tea.Batch(confirmPendingCmd(m.runner), m.loader.Tick)
	}
	m.busy = false
	return nil
}

func (m *Model) dismissPrompt() {
	kind := m.prompt
	m.prompt = confirmNone
	m.confirm.Close()
	if kind == confirmClone || kind == confirmLogin {
		snap := m.runner.sync(func(co *coordinator.Coordinator) {
			co.CancelPending()
		})
		m.install(snap)
	}
}

// replaceFromPush is the router's session-replace callback. Route runs
// on the update goroutine, so mutating the model here is safe.
func (m *Model) replaceFromPush(session *types.Session, generation uint64) {
	snap := m.runner.sync(func(co *coordinator.Coordinator) {
		co.ReplaceSession(session)
	})
	m.install(snap)
	m.merger.Reset(session, generation)
}

// sendBlocked reports why a prompt cannot be submitted right now, or ""
// when it can. Fine-tune sessions take documents, not prompts, and a
// prompt must wait until the previous interaction is finished and no
// longer being edited.
func (m *Model) sendBlocked() string {
	if m.session == nil {
		return "no session loaded"
	}
	if m.session.Mode == types.SessionModeFinetune {
		return "fine-tune sessions take documents, not prompts (ctrl+d)"
	}
	last := m.session.LastInteraction()
	if last != nil && (!last.Finished || last.State == types.InteractionStateEditing) {
		return "still responding, wait for the answer to finish"
	}
	return ""
}

func (m *Model) install(snap snapshot) {
	m.session = snap.session
	m.viewer = snap.viewer
	m.coState = snap.state
}

func (m *Model) copyLastResponse() {
	if m.session == nil {
		return
	}
	interaction := m.session.SystemInteraction()
	if interaction == nil || interaction.Message == "" {
		m.setStatusError("nothing to copy")
		return
	}
	message := interaction.Message
	if view, ok := m.merger.View(); ok && view.InteractionID == interaction.ID {
		message = view.Message
	}
	if err := copyTextToClipboard(message); err != nil {
		m.setStatusError("copy failed: " + err.Error())
		return
	}
	m.setStatusInfo("response copied")
}

func (m *Model) refreshTranscript() {
	width := m.viewport.Width
	if width <= 0 {
		width = minViewportWidth
	}
	var view *live.View
	if v, ok := m.merger.View(); ok {
		view = &v
	}
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(renderTranscript(m.session, view, width))
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	if width < minViewportWidth {
		width = minViewportWidth
	}
	contentHeight := height - inputChromeHeight
	if contentHeight < minContentHeight {
		contentHeight = minContentHeight
	}
	m.viewport.Width = width
	m.viewport.Height = contentHeight
	m.input.Width = width - 4
	m.ready = true
	m.refreshTranscript()
}

func (m *Model) setStatusInfo(msg string) {
	m.statusMsg = msg
	m.statusIsErr = false
}

func (m *Model) setStatusError(msg string) {
	m.statusMsg = msg
	m.statusIsErr = true
}
