package types

import "time"

type SessionMode string

const (
	SessionModeInference SessionMode = "inference"
	SessionModeFinetune  SessionMode = "finetune"
)

type SessionType string

const (
	SessionTypeText  SessionType = "text"
	SessionTypeImage SessionType = "image"
)

type InteractionState string

const (
	InteractionStateWaiting  InteractionState = "waiting"
	InteractionStateEditing  InteractionState = "editing"
	InteractionStateComplete InteractionState = "complete"
	InteractionStateError    InteractionState = "error"
)

type Creator string

const (
	CreatorUser   Creator = "user"
	CreatorSystem Creator = "system"
)

type CloneMode string

const (
	CloneModeJustData      CloneMode = "just_data"
	CloneModeWithQuestions CloneMode = "with_questions"
	CloneModeAll           CloneMode = "all"
)

type SessionConfig struct {
	Shared bool `json:"shared"`
}

// Interaction is one turn within a session. The message, progress and
// status fields are the only ones the live push path mutates locally;
// a session replace from the server overwrites the whole record.
type Interaction struct {
	ID       string           `json:"id"`
	Created  time.Time        `json:"created"`
	Creator  Creator          `json:"creator"`
	Mode     SessionMode      `json:"mode"`
	Message  string           `json:"message"`
	Progress int              `json:"progress,omitempty"`
	Status   string           `json:"status,omitempty"`
	State    InteractionState `json:"state"`
	Finished bool             `json:"finished"`
	Error    string           `json:"error,omitempty"`
}

// Session is the client-side snapshot of a server-owned session. The
// interaction sequence is append-order; the client never reorders it.
type Session struct {
	ID           string         `json:"id"`
	Name         string         `json:"name,omitempty"`
	Owner        string         `json:"owner"`
	Mode         SessionMode    `json:"mode"`
	Type         SessionType    `json:"type"`
	Config       SessionConfig  `json:"config"`
	Interactions []*Interaction `json:"interactions"`
	Created      time.Time      `json:"created"`
	Updated      time.Time      `json:"updated"`
}

// LastInteraction returns the most recent interaction, or nil for an
// empty session.
func (s *Session) LastInteraction() *Interaction {
	if s == nil || len(s.Interactions) == 0 {
		return nil
	}
	return s.Interactions[len(s.Interactions)-1]
}

// SystemInteraction returns the most recent system-authored interaction.
// It is the default clone source when a deferred instruction carries no
// explicit interaction id.
func (s *Session) SystemInteraction() *Interaction {
	if s == nil {
		return nil
	}
	for i := len(s.Interactions) - 1; i >= 0; i-- {
		if s.Interactions[i].Creator == CreatorSystem {
			return s.Interactions[i]
		}
	}
	return nil
}
