package auth

import (
	"context"
	"fmt"

	"gofinances/internal/core"
)

// NormalizeFunc maps one provider's raw credential to the canonical Identity.
type NormalizeFunc func(ctx context.Context, cred Credential) (core.Identity, error)

// Normalizers dispatches credentials to the mapping function for their
// provider, keeping provider-specific field handling out of call sites.
type Normalizers map[core.Provider]NormalizeFunc

// Normalize resolves the credential's provider and validates the result.
// Every identity it returns has a non-empty id.
func (n Normalizers) Normalize(ctx context.Context, cred Credential) (core.Identity, error) {
	fn, ok := n[cred.Provider]
	if !ok {
		return core.Identity{}, fmt.Errorf("normalize %q credential: %w", cred.Provider, core.ErrUnknownProvider)
	}

	identity, err := fn(ctx, cred)
	if err != nil {
		return core.Identity{}, err
	}
	if err := identity.Validate(); err != nil {
		return core.Identity{}, fmt.Errorf("normalized %s identity invalid: %w", cred.Provider, err)
	}
	return identity, nil
}
