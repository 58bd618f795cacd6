package types

// Instruction captures a viewer's intent against a session before it is
// allowed to run: either clone from a specific interaction, add documents
// to a fine-tune session, or send an inference prompt. It is the payload
// of the single deferred slot that survives a login round trip.
type Instruction struct {
	CloneMode          CloneMode `json:"clone_mode,omitempty"`
	CloneInteractionID string    `json:"clone_interaction_id,omitempty"`
	AddDocuments       bool      `json:"add_documents,omitempty"`
	InferencePrompt    string    `json:"inference_prompt,omitempty"`
}

func (i Instruction) IsZero() bool {
	return i == Instruction{}
}
