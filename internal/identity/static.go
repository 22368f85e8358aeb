package identity

import "context"

// StaticProvider returns a fixed identity. Used for dev runs without a
// session store and in tests.
type StaticProvider struct {
	Identity *Identity
}

// Current returns the configured identity (nil means anonymous).
func (p *StaticProvider) Current(ctx context.Context) (*Identity, error) {
	return p.Identity, nil
}
