package types

type EventType string

const (
	EventTypeSessionUpdate      EventType = "session_update"
	EventTypeWorkerTaskResponse EventType = "worker_task_response"
)

type WorkerTaskResponseType string

const (
	WorkerTaskResponseTypeStream   WorkerTaskResponseType = "stream"
	WorkerTaskResponseTypeProgress WorkerTaskResponseType = "progress"
)

// WorkerTaskResponse is the payload of a streaming push message. A stream
// response carries a text fragment; a progress response carries an
// optional progress percentage and an optional status string.
type WorkerTaskResponse struct {
	Type      WorkerTaskResponseType `json:"type"`
	SessionID string                 `json:"session_id"`
	Message   string                 `json:"message,omitempty"`
	Progress  int                    `json:"progress,omitempty"`
	Status    string                 `json:"status,omitempty"`
}

// Event is the discriminated envelope delivered on the push channel.
// Generation is not part of the wire format; the subscription stamps it
// so stale messages from a superseded subscription can be discarded.
type Event struct {
	Type               EventType           `json:"type"`
	SessionID          string              `json:"session_id"`
	Session            *Session            `json:"session,omitempty"`
	WorkerTaskResponse *WorkerTaskResponse `json:"worker_task_response,omitempty"`

	Generation uint64 `json:"-"`
}
