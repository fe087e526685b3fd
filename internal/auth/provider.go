// Package auth mediates interactive sign-in against external identity
// providers and normalizes their credentials into the canonical Identity.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"gofinances/internal/core"
)

// ErrHandshakeAborted signals that the interactive flow ended without a
// successful credential: the user cancelled or the provider returned a
// non-success result. Recoverable; the caller stays signed out.
var ErrHandshakeAborted = errors.New("handshake aborted")

// ProviderResponseError reports an HTTP failure while talking to a provider
// (token exchange or user-info fetch). Retrying is the caller's decision.
type ProviderResponseError struct {
	Provider   core.Provider
	StatusCode int
	Err        error
}

func (e *ProviderResponseError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s provider responded with status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s provider request failed: %v", e.Provider, e.Err)
}

func (e *ProviderResponseError) Unwrap() error {
	return e.Err
}

// AuthenticationError wraps any sign-in failure surfaced by the session
// manager. The underlying cause stays reachable through errors.Is/As.
type AuthenticationError struct {
	Provider core.Provider
	Err      error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication with %s failed: %v", e.Provider, e.Err)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// GoogleCredential is the raw result of the Google OAuth flow.
type GoogleCredential struct {
	AccessToken string
}

// AppleCredential carries the fields the native Sign in with Apple binding
// surfaces. Email and GivenName may be empty on repeat sign-ins.
type AppleCredential struct {
	UserID    string
	Email     string
	GivenName string
}

// Credential is a tagged union of provider-specific raw handshake results.
// Exactly one of the payload fields is set, matching Provider.
type Credential struct {
	Provider core.Provider
	Google   *GoogleCredential
	Apple    *AppleCredential
}

// Provider runs the interactive handshake with one identity provider.
type Provider interface {
	Name() core.Provider

	// Handshake blocks until the flow completes. It returns
	// ErrHandshakeAborted when the user bails out.
	Handshake(ctx context.Context) (Credential, error)
}

// avatarURL synthesizes a displayable placeholder photo keyed by whatever
// name is available; providers do not always supply one.
func avatarURL(name string) string {
	q := url.Values{"name": {name}, "length": {"1"}}
	return "https://ui-avatars.com/api/?" + q.Encode()
}
