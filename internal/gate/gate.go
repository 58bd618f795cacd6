// Package gate decides whether an action against a session may run for
// the current viewer. It is the single authority every mutating action
// consults before calling the remote service.
package gate

import (
	"errors"

	"parley/internal/types"
)

type Decision int

const (
	Proceed Decision = iota
	RequireClone
	RequireLogin
)

func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case RequireClone:
		return "require_clone"
	case RequireLogin:
		return "require_login"
	default:
		return "unknown"
	}
}

// ErrNoSession signals that no session is loaded; callers abort silently.
var ErrNoSession = errors.New("no session loaded")

// Decide is deterministic and side-effect free. The login check runs
// before the ownership check: login is a precondition for cloning, so an
// unauthenticated non-owner gets RequireLogin, never RequireClone.
func Decide(session *types.Session, viewer types.Viewer) (Decision, error) {
	if session == nil {
		return 0, ErrNoSession
	}
	if !viewer.Authenticated() {
		return RequireLogin, nil
	}
	if session.Owner != viewer.ID && !viewer.Admin {
		return RequireClone, nil
	}
	return Proceed, nil
}
