// Package http exposes the service API: multipart upload, transcription
// list and delete, the session state snapshot and a websocket stream of
// snapshots. State is held per session; there is no process-wide
// transcription state.
package http

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"audio-notebook-service/internal/service/transcription"
)

// sessionCookie carries the session token for browser clients that do not
// send the header.
const sessionCookie = "session_token"

// sessionHeader is checked before the cookie.
const sessionHeader = "X-Session-Token"

// RunnerFactory builds a session's Runner from its token. The token is the
// key used by the identity provider to look the session up.
type RunnerFactory func(sessionToken string) *transcription.Runner

// Registry maps session tokens to their runners, creating them on first
// use.
type Registry struct {
	mu      sync.Mutex
	runners map[string]*transcription.Runner
	factory RunnerFactory
}

// NewRegistry creates a Registry over the given factory.
func NewRegistry(factory RunnerFactory) *Registry {
	return &Registry{
		runners: make(map[string]*transcription.Runner),
		factory: factory,
	}
}

// Runner returns the session's runner, creating it if needed.
func (g *Registry) Runner(token string) *transcription.Runner {
	g.mu.Lock()
	defer g.mu.Unlock()

	if r, ok := g.runners[token]; ok {
		return r
	}
	r := g.factory(token)
	g.runners[token] = r
	return r
}

// Close tears down every session runner, cancelling in-flight jobs.
func (g *Registry) Close() {
	g.mu.Lock()
	runners := make([]*transcription.Runner, 0, len(g.runners))
	for _, r := range g.runners {
		runners = append(runners, r)
	}
	g.runners = make(map[string]*transcription.Runner)
	g.mu.Unlock()

	for _, r := range runners {
		r.Close()
	}
}

// sessionToken extracts the session token from the request, minting a new
// one (and setting the cookie) when absent.
func sessionToken(w http.ResponseWriter, r *http.Request) string {
	if t := r.Header.Get(sessionHeader); t != "" {
		return t
	}
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	return token
}
