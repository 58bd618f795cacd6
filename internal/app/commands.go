package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"parley/internal/client"
	"parley/internal/coordinator"
	"parley/internal/push"
	"parley/internal/types"
)

func loadViewerCmd(api *client.Client) tea.Cmd {
	return func() tea.Msg {
		viewer, err := api.Viewer(context.Background())
		return viewerMsg{viewer: viewer, err: err}
	}
}

func loadSessionCmd(api *client.Client, id string) tea.Cmd {
	return func() tea.Msg {
		session, err := api.LoadSession(context.Background(), id)
		return sessionMsg{session: session, err: err}
	}
}

func subscribeCmd(subscriber *push.Subscriber, sessionID string) tea.Cmd {
	return func() tea.Msg {
		sub, err := subscriber.Subscribe(context.Background(), sessionID)
		return subscribedMsg{sub: sub, err: err}
	}
}

// waitForEventCmd blocks on the subscription's event channel. A closed
// channel means the connection dropped; the update loop resubscribes.
func waitForEventCmd(sub *push.Subscription) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-sub.Events
		return pushEventMsg{sub: sub, event: event, ok: ok}
	}
}

func sendCmd(r *actionRunner, prompt string) tea.Cmd {
	return r.do(func(ctx context.Context, co *coordinator.Coordinator) {
		co.Send(ctx, prompt)
	})
}

func restartCmd(r *actionRunner) tea.Cmd {
	return r.do(func(ctx context.Context, co *coordinator.Coordinator) {
		co.Restart(ctx)
	})
}

func setSharedCmd(r *actionRunner, shared bool) tea.Cmd {
	return r.do(func(ctx context.Context, co *coordinator.Coordinator) {
		co.SetShared(ctx, shared)
	})
}

func addDocumentsCmd(r *actionRunner) tea.Cmd {
	return r.do(func(ctx context.Context, co *coordinator.Coordinator) {
		co.AddDocuments(ctx)
	})
}

func cloneCmd(r *actionRunner, interactionID string, mode types.CloneMode) tea.Cmd {
	return r.do(func(ctx context.Context, co *coordinator.Coordinator) {
		co.Clone(ctx, interactionID, mode)
	})
}

func confirmPendingCmd(r *actionRunner) tea.Cmd {
	return r.do(func(ctx context.Context, co *coordinator.Coordinator) {
		co.ConfirmPending(ctx)
	})
}

func viewerChangedCmd(r *actionRunner, viewer types.Viewer) tea.Cmd {
	return r.do(func(ctx context.Context, co *coordinator.Coordinator) {
		co.ViewerChanged(ctx, viewer)
	})
}
