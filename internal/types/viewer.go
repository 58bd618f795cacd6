package types

// Viewer identifies whoever is looking at a session. A zero ID means the
// viewer is not logged in. Ownership is always derived from this record
// against a session's owner, never stored.
type Viewer struct {
	ID    string `json:"id"`
	Admin bool   `json:"admin"`
}

func (v Viewer) Authenticated() bool {
	return v.ID != ""
}
