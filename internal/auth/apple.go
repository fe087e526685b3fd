package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gofinances/internal/core"
)

// AppleHandshakeFunc is the bridge to the platform's native Sign in with
// Apple binding, which is an external collaborator: it either yields the raw
// credential or reports cancellation with ErrHandshakeAborted.
type AppleHandshakeFunc func(ctx context.Context) (AppleCredential, error)

// AppleProvider adapts the native Apple credential into the common provider
// port. Unlike Google there is no HTTP exchange; all identity fields come
// straight from the credential.
type AppleProvider struct {
	handshake AppleHandshakeFunc
}

var _ Provider = (*AppleProvider)(nil)

func NewAppleProvider(handshake AppleHandshakeFunc) *AppleProvider {
	return &AppleProvider{handshake: handshake}
}

func (p *AppleProvider) Name() core.Provider {
	return core.ProviderApple
}

func (p *AppleProvider) Handshake(ctx context.Context) (Credential, error) {
	if p.handshake == nil {
		return Credential{}, errors.New("apple sign-in binding not configured")
	}

	cred, err := p.handshake(ctx)
	if err != nil {
		if errors.Is(err, ErrHandshakeAborted) {
			return Credential{}, err
		}
		return Credential{}, fmt.Errorf("apple handshake: %w", err)
	}

	return Credential{Provider: core.ProviderApple, Apple: &cred}, nil
}

// NormalizeApple maps the native credential to an Identity. Apple withholds
// name and email on repeat sign-ins for the same device, so both may be
// empty; the photo is always a generated placeholder keyed by the name.
func NormalizeApple(_ context.Context, cred Credential) (core.Identity, error) {
	if cred.Apple == nil {
		return core.Identity{}, errors.New("missing apple credential payload")
	}
	if strings.TrimSpace(cred.Apple.UserID) == "" {
		return core.Identity{}, fmt.Errorf("apple credential: %w", core.ErrEmptyIdentityID)
	}

	name := strings.TrimSpace(cred.Apple.GivenName)
	return core.Identity{
		ID:    cred.Apple.UserID,
		Name:  name,
		Email: cred.Apple.Email,
		Photo: avatarURL(name),
	}, nil
}
