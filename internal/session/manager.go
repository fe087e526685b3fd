// Package session owns the authenticated identity: sign-in orchestration,
// persistence under the fixed session key, restore at startup and sign-out.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gofinances/internal/auth"
	"gofinances/internal/core"
	"gofinances/internal/store"
)

// DefaultSignInTimeout bounds the whole interactive handshake; there is no
// cancellation primitive once a provider flow starts, only this deadline.
const DefaultSignInTimeout = 5 * time.Minute

// Manager mediates multi-provider login and exposes the current Identity to
// the presentation layer through Current and Subscribe. A zero Identity means
// signed out.
type Manager struct {
	kv          store.KV
	sessionKey  string
	providers   map[core.Provider]auth.Provider
	normalizers auth.Normalizers
	timeout     time.Duration

	// commitMu serializes persist+publish so concurrent sign-ins and
	// sign-outs never interleave partial writes; the store always matches
	// the last completed operation.
	commitMu sync.Mutex

	mu        sync.RWMutex
	current   core.Identity
	provider  core.Provider
	restoring bool
	subs      map[int]func(core.Identity)
	nextSub   int

	restoredOnce sync.Once
}

type Option func(*Manager)

// WithSignInTimeout overrides the bounded wait for the whole sign-in flow.
func WithSignInTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

func NewManager(kv store.KV, sessionKey string, providers []auth.Provider, normalizers auth.Normalizers, opts ...Option) *Manager {
	byName := make(map[core.Provider]auth.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}

	m := &Manager{
		kv:          kv,
		sessionKey:  sessionKey,
		providers:   byName,
		normalizers: normalizers,
		timeout:     DefaultSignInTimeout,
		restoring:   true,
		subs:        make(map[int]func(core.Identity)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Restoring reports whether the persisted session has not been read yet.
func (m *Manager) Restoring() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.restoring
}

// Current returns the authenticated identity, zero when signed out.
func (m *Manager) Current() core.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// CurrentProvider names the provider that authenticated the current session.
// Empty when signed out or when the session was restored from disk, since the
// persisted record does not carry provenance.
func (m *Manager) CurrentProvider() core.Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.provider
}

// Subscribe registers fn to be called with the new identity after every state
// change. The returned func cancels the subscription.
func (m *Manager) Subscribe(fn func(core.Identity)) (cancel func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Restore reads the persisted session once. Absent key, store failure and
// corrupt payloads all resolve to "no session" instead of failing startup;
// the restoring flag clears exactly once on every path. Corrupt records are
// removed so they do not resurface. A sign-in that lands before Restore runs
// wins; the disk read is then skipped.
func (m *Manager) Restore(ctx context.Context) error {
	m.restoredOnce.Do(func() {
		defer m.clearRestoring()

		// Serialize against sign-in and sign-out commits. A sign-in that
		// completed while restore was pending already owns the state; the
		// stale disk read must not overwrite it.
		m.commitMu.Lock()
		defer m.commitMu.Unlock()

		if !m.Current().IsZero() {
			return
		}

		raw, err := m.kv.Get(ctx, m.sessionKey)
		if errors.Is(err, store.ErrNotFound) {
			return
		}
		if err != nil {
			slog.WarnContext(ctx, "Session restore failed, treating as signed out", "error", err)
			return
		}

		var identity core.Identity
		if uerr := json.Unmarshal(raw, &identity); uerr != nil || identity.Validate() != nil {
			slog.WarnContext(ctx, "Persisted session is corrupt, discarding", "error", uerr)
			if rerr := m.kv.Remove(ctx, m.sessionKey); rerr != nil {
				slog.WarnContext(ctx, "Failed to remove corrupt session record", "error", rerr)
			}
			return
		}

		m.publish(identity, "")
		slog.InfoContext(ctx, "Session restored", "user_id", identity.ID)
	})
	return nil
}

func (m *Manager) clearRestoring() {
	m.mu.Lock()
	m.restoring = false
	m.mu.Unlock()
}

// SignIn runs the named provider's handshake, normalizes the credential and
// persists the identity before making it observable. A cancelled flow
// surfaces auth.ErrHandshakeAborted; every other failure wraps into
// *auth.AuthenticationError and leaves state untouched.
func (m *Manager) SignIn(ctx context.Context, provider core.Provider) (core.Identity, error) {
	p, ok := m.providers[provider]
	if !ok {
		return core.Identity{}, &auth.AuthenticationError{Provider: provider, Err: core.ErrUnknownProvider}
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	cred, err := p.Handshake(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrHandshakeAborted) {
			slog.InfoContext(ctx, "Sign-in aborted by user", "provider", provider)
			return core.Identity{}, err
		}
		return core.Identity{}, &auth.AuthenticationError{Provider: provider, Err: err}
	}

	identity, err := m.normalizers.Normalize(ctx, cred)
	if err != nil {
		return core.Identity{}, &auth.AuthenticationError{Provider: provider, Err: err}
	}

	payload, err := json.Marshal(identity)
	if err != nil {
		return core.Identity{}, &auth.AuthenticationError{Provider: provider, Err: fmt.Errorf("encode session: %w", err)}
	}

	// Persist before publish: the identity only becomes observable once it
	// is durably stored.
	m.commitMu.Lock()
	if err := m.kv.Set(ctx, m.sessionKey, payload); err != nil {
		m.commitMu.Unlock()
		return core.Identity{}, &auth.AuthenticationError{Provider: provider, Err: err}
	}
	m.publish(identity, provider)
	m.commitMu.Unlock()

	slog.InfoContext(ctx, "User signed in", "provider", provider, "user_id", identity.ID)
	return identity, nil
}

// SignOut clears the in-memory identity and removes the session record.
// Calling it while already signed out is a no-op.
func (m *Manager) SignOut(ctx context.Context) error {
	m.commitMu.Lock()
	defer m.commitMu.Unlock()

	wasSignedIn := !m.Current().IsZero()
	if err := m.kv.Remove(ctx, m.sessionKey); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	m.publish(core.Identity{}, "")

	if wasSignedIn {
		slog.InfoContext(ctx, "User signed out")
	}
	return nil
}

// publish swaps the current identity and notifies subscribers outside the
// state lock.
func (m *Manager) publish(identity core.Identity, provider core.Provider) {
	m.mu.Lock()
	m.current = identity
	m.provider = provider
	fns := make([]func(core.Identity), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(identity)
	}
}
