// Package session owns the per-session view of "who is the caller and what is
// their profile". A Provider consolidates identity state and a live profile
// subscription into a Snapshot, re-published on every upstream change.
package session

import (
	"context"
	"sync"

	"github.com/spec-kit/internship-service/internal/domain"
)

// ProfileWatcher delivers an initial profile emission followed by every
// subsequent change for a given profile document, in delivery order. The
// returned function cancels the watch.
type ProfileWatcher interface {
	Watch(ctx context.Context, profileID string, fn func(*domain.Profile, error)) (func(), error)
}

// RegisterInput carries the student registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	School   string
	Level    domain.Level
	Password string
}

// Authenticator performs the credential operations behind the provider.
type Authenticator interface {
	// Register creates the identity and profile. On partial failure it
	// returns the created identity with a nil profile alongside the error.
	Register(ctx context.Context, input RegisterInput) (*domain.Identity, *domain.Profile, error)
	Authenticate(ctx context.Context, email, password string) (*domain.Identity, error)
}

// Provider maintains a single session's snapshot. All state transitions are
// serialized behind one mutex; profile callbacks are tagged with a watch
// generation so emissions belonging to a previous identity are discarded.
type Provider struct {
	auth    Authenticator
	watcher ProfileWatcher

	mu      sync.RWMutex
	snap    Snapshot
	gen     uint64
	unwatch func()
	closed  bool

	updates chan Snapshot
}

// NewProvider builds a provider in the Unknown(loading) state. Resolve must be
// called once with the session's initial identity (nil for anonymous).
func NewProvider(auth Authenticator, watcher ProfileWatcher, updateBuffer int) *Provider {
	if updateBuffer <= 0 {
		updateBuffer = 8
	}
	return &Provider{
		auth:    auth,
		watcher: watcher,
		snap:    Snapshot{Loading: true},
		updates: make(chan Snapshot, updateBuffer),
	}
}

// Resolve delivers the initial identity-change event, moving the provider out
// of the Unknown state.
func (p *Provider) Resolve(ctx context.Context, identity *domain.Identity) {
	p.setIdentity(ctx, identity)
}

// Register runs the two-phase registration and, on success, publishes the new
// profile into the snapshot before returning.
func (p *Provider) Register(ctx context.Context, input RegisterInput) (*domain.Profile, error) {
	identity, profile, err := p.auth.Register(ctx, input)
	if identity != nil {
		// Identity exists even when the profile write failed; the gate then
		// sees {identity, profile absent, loading=false}.
		p.setIdentity(ctx, identity)
	}
	if err != nil {
		return nil, err
	}
	p.applyProfile(p.currentGen(), profile, nil)
	return profile, nil
}

// SignIn authenticates and republishes the identity. The profile arrives
// asynchronously through the watch subscription.
func (p *Provider) SignIn(ctx context.Context, email, password string) error {
	identity, err := p.auth.Authenticate(ctx, email, password)
	if err != nil {
		return err
	}
	p.setIdentity(ctx, identity)
	return nil
}

// SignOut clears the identity and tears down the profile subscription. It is
// a no-op when already signed out.
func (p *Provider) SignOut(ctx context.Context) {
	p.mu.RLock()
	anonymous := p.snap.Identity == nil && !p.snap.Loading
	p.mu.RUnlock()
	if anonymous {
		return
	}
	p.setIdentity(ctx, nil)
}

// Current returns the latest snapshot.
func (p *Provider) Current() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

// Updates exposes the snapshot stream for push consumers.
func (p *Provider) Updates() <-chan Snapshot {
	return p.updates
}

// Close tears down the subscription and closes the update stream.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.gen++
	if p.unwatch != nil {
		p.unwatch()
		p.unwatch = nil
	}
	close(p.updates)
}

func (p *Provider) currentGen() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gen
}

// setIdentity applies an identity-change event: tear down the old watch first,
// then attach a new one, so two watches for different identities are never
// live at once.
func (p *Provider) setIdentity(ctx context.Context, identity *domain.Identity) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}

	p.gen++
	gen := p.gen
	if p.unwatch != nil {
		p.unwatch()
		p.unwatch = nil
	}

	if identity == nil {
		p.snap = Snapshot{}
		p.publishLocked()
		p.mu.Unlock()
		return
	}

	p.snap = Snapshot{Identity: identity, Loading: true}
	p.publishLocked()
	p.mu.Unlock()

	if p.watcher == nil {
		p.applyProfile(gen, nil, nil)
		return
	}

	unwatch, err := p.watcher.Watch(ctx, identity.ID, func(profile *domain.Profile, err error) {
		p.applyProfile(gen, profile, err)
	})
	if err != nil {
		p.applyProfile(gen, nil, err)
		return
	}

	p.mu.Lock()
	if p.gen == gen && !p.closed {
		p.unwatch = unwatch
	} else {
		// identity changed while the watch was being attached
		unwatch()
	}
	p.mu.Unlock()
}

// applyProfile folds a profile emission into the snapshot, discarding it when
// it belongs to a stale watch generation.
func (p *Provider) applyProfile(gen uint64, profile *domain.Profile, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || gen != p.gen || p.snap.Identity == nil {
		return
	}
	p.snap.Profile = profile
	p.snap.Loading = false
	p.snap.Err = err
	p.publishLocked()
}

func (p *Provider) publishLocked() {
	select {
	case p.updates <- p.snap:
	default:
		// slow consumer: drop the oldest update, keep the newest
		select {
		case <-p.updates:
		default:
		}
		select {
		case p.updates <- p.snap:
		default:
		}
	}
}
