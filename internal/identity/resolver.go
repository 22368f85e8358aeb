package identity

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Resolver caches the workspace id for one session. The cache is keyed by
// the observed user id and is invalidated before use whenever the user
// changes, so a cached workspace id is never served to a different user.
type Resolver struct {
	provider Provider
	logger   zerolog.Logger

	mu          sync.Mutex
	workspaceID string
	initialized bool
	lastUserID  string
}

// NewResolver creates a Resolver over the given provider.
func NewResolver(provider Provider, logger zerolog.Logger) *Resolver {
	return &Resolver{
		provider: provider,
		logger:   logger,
	}
}

// Resolve returns the workspace id for the session's current identity.
// It never fails: any provider error yields PublicWorkspace.
func (r *Resolver) Resolve(ctx context.Context) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.provider.Current(ctx)
	if err != nil {
		r.logger.Debug().Err(err).Msg("identity provider unavailable, using public workspace")
		return PublicWorkspace
	}

	// Invalidate before any cached read when the user changed.
	if key := userKey(current); key != r.lastUserID {
		r.initialized = false
		r.workspaceID = ""
		r.lastUserID = key
	}

	if r.initialized && r.workspaceID != "" {
		return r.workspaceID
	}

	ws := r.fetchWorkspaceID(ctx, current)
	r.workspaceID = ws
	r.initialized = true
	return ws
}

// Invalidate clears the cache. The next Resolve performs a full resolution.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.initialized = false
	r.workspaceID = ""
	r.lastUserID = ""
}

func (r *Resolver) fetchWorkspaceID(ctx context.Context, current *Identity) string {
	if ws := workspaceKey(current); ws != "" {
		return ws
	}

	// Session-level fallback for providers that carry identity fields
	// outside the authenticated user.
	if sp, ok := r.provider.(SessionProvider); ok {
		session, err := sp.SessionIdentity(ctx)
		if err != nil {
			r.logger.Debug().Err(err).Msg("session identity lookup failed, using public workspace")
			return PublicWorkspace
		}
		if ws := workspaceKey(session); ws != "" {
			return ws
		}
	}

	return PublicWorkspace
}
