package app

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"parley/internal/client"
	"parley/internal/coordinator"
	"parley/internal/live"
	"parley/internal/logging"
	"parley/internal/pending"
	"parley/internal/push"
	"parley/internal/types"
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmRestart
	confirmClone
	confirmLogin
)

const (
	minViewportWidth  = 40
	minContentHeight  = 10
	inputChromeHeight = 4
)

// Model is the terminal UI for one session. All remote work runs
// through the action runner on command goroutines; the update loop only
// installs snapshots and drains the coordinator's sinks.
type Model struct {
	api        *client.Client
	runner     *actionRunner
	status     *statusSink
	nav        *navSink
	login      *loginSink
	subscriber *push.Subscriber
	log        logging.Logger

	sessionID string
	session   *types.Session
	viewer    types.Viewer
	coState   coordinator.State

	sub    *push.Subscription
	merger *live.Merger
	router *push.Router

	viewport viewport.Model
	input    textinput.Model
	loader   spinner.Model
	confirm  *ConfirmController
	prompt   confirmKind

	width        int
	height       int
	ready        bool
	busy         bool
	showDocs     bool
	viewerLoaded bool

	statusMsg   string
	statusIsErr bool
}

func NewModel(api *client.Client, store pending.Store, subscriber *push.Subscriber, sessionID string, log logging.Logger) Model {
	if log == nil {
		log = logging.Nop()
	}
	status := &statusSink{}
	nav := &navSink{}
	login := &loginSink{}
	co := coordinator.New(api, store, status, nav, login, log)

	vp := viewport.New(minViewportWidth, minContentHeight)
	vp.SetContent("Loading session...")

	input := textinput.New()
	input.Placeholder = "Ask anything..."
	input.CharLimit = 0
	input.Focus()

	loader := spinner.New()
	loader.Spinner = spinner.Line
	loader.Style = lipgloss.NewStyle()

	return Model{
		api:        api,
		runner:     newActionRunner(co),
		status:     status,
		nav:        nav,
		login:      login,
		subscriber: subscriber,
		log:        log,
		sessionID:  sessionID,
		merger:     live.NewMerger(),
		viewport:   vp,
		input:      input,
		loader:     loader,
		confirm:    NewConfirmController(),
	}
}

// Run drives the UI to completion and reports whether the viewer asked
// to sign in; the caller finishes the login flow outside the terminal.
func Run(api *client.Client, store pending.Store, subscriber *push.Subscriber, sessionID string, log logging.Logger) (bool, error) {
	model := NewModel(api, store, subscriber, sessionID, log)
	p := tea.NewProgram(&model, tea.WithAltScreen())
	_, err := p.Run()
	return model.login.Requested(), err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		loadSessionCmd(m.api, m.sessionID),
		m.loader.Tick,
		textinput.Blink,
	)
}
