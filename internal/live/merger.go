// Package live applies incremental push updates to the one interaction
// that is currently streaming. Fragments are applied strictly in arrival
// order: no reordering, no deduplication. A full session replace always
// wins over in-flight merge state.
package live

import "parley/internal/types"

// View is the mutable projection of the streaming interaction. Only its
// message, progress and status fields ever change locally; everything
// else belongs to the server snapshot.
type View struct {
	SessionID     string
	InteractionID string
	Message       string
	Progress      int
	Status        string
}

// Eligible reports whether an interaction may receive live updates: it
// must be the session's most recent interaction, not finished, and not
// still being edited.
func Eligible(session *types.Session, interaction *types.Interaction) bool {
	if session == nil || interaction == nil {
		return false
	}
	last := session.LastInteraction()
	if last == nil || last.ID != interaction.ID {
		return false
	}
	return !interaction.Finished && interaction.State != types.InteractionStateEditing
}

// Merger owns the view for one session subscription. Reset seeds it from
// an authoritative snapshot and bumps the accepted generation, discarding
// whatever a superseded subscription still had in flight.
type Merger struct {
	generation uint64
	view       *View
}

func NewMerger() *Merger {
	return &Merger{}
}

// Reset replaces the merge state with the server snapshot. When the
// session has no live-eligible interaction the view is dropped and
// subsequent deltas are ignored until the next replace.
func (m *Merger) Reset(session *types.Session, generation uint64) {
	if m == nil {
		return
	}
	m.generation = generation
	m.view = nil
	if session == nil {
		return
	}
	interaction := session.LastInteraction()
	if !Eligible(session, interaction) {
		return
	}
	m.view = &View{
		SessionID:     session.ID,
		InteractionID: interaction.ID,
		Message:       interaction.Message,
		Progress:      interaction.Progress,
		Status:        interaction.Status,
	}
}

func (m *Merger) View() (View, bool) {
	if m == nil || m.view == nil {
		return View{}, false
	}
	return *m.view, true
}

// Apply merges one push message into the view and reports whether
// anything changed. Messages for another session or from a stale
// generation are ignored; that is a normal race when the viewer switches
// sessions while a stream is in flight, not an error.
func (m *Merger) Apply(event types.Event) bool {
	if m == nil || m.view == nil {
		return false
	}
	if event.Generation != m.generation {
		return false
	}
	if event.SessionID != "" && event.SessionID != m.view.SessionID {
		return false
	}
	response := event.WorkerTaskResponse
	if response == nil {
		return false
	}
	if response.SessionID != "" && response.SessionID != m.view.SessionID {
		return false
	}
	switch response.Type {
	case types.WorkerTaskResponseTypeStream:
		if response.Message == "" {
			return false
		}
		m.view.Message += response.Message
		return true
	case types.WorkerTaskResponseTypeProgress:
		changed := false
		if response.Progress != 0 {
			m.view.Progress = response.Progress
			changed = true
		}
		if response.Status != "" {
			m.view.Status = response.Status
			changed = true
		}
		return changed
	default:
		return false
	}
}
