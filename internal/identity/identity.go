// Package identity resolves the workspace a request operates on from the
// current session identity, with a per-session cache.
package identity

import "context"

// PublicWorkspace is the sentinel workspace for unauthenticated sessions.
const PublicWorkspace = "public"

// Identity is the typed view of an authenticated user. Any field may be
// empty; an all-empty identity is treated as unauthenticated.
type Identity struct {
	ID       string `json:"id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Provider exposes the current authenticated user of a session.
// Current returns nil without error when no user is authenticated.
type Provider interface {
	Current(ctx context.Context) (*Identity, error)
}

// SessionProvider is an optional extension for providers that carry
// identity-like fields on the session itself, used as a fallback when the
// authenticated user has none.
type SessionProvider interface {
	SessionIdentity(ctx context.Context) (*Identity, error)
}

// userKey derives the change-detection key for an identity:
// first non-empty of ID, Username, Email. Empty when id is nil.
func userKey(id *Identity) string {
	if id == nil {
		return ""
	}
	if id.ID != "" {
		return id.ID
	}
	if id.Username != "" {
		return id.Username
	}
	return id.Email
}

// workspaceKey derives a workspace id from an identity:
// first non-empty of ID, UserID, Username, Email. Empty when nothing is set.
func workspaceKey(id *Identity) string {
	if id == nil {
		return ""
	}
	for _, v := range []string{id.ID, id.UserID, id.Username, id.Email} {
		if v != "" {
			return v
		}
	}
	return ""
}
