package auth

import (
	"context"
	"errors"
	"testing"

	"gofinances/internal/core"
)

func TestAppleHandshake(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		p := NewAppleProvider(func(ctx context.Context) (AppleCredential, error) {
			return AppleCredential{UserID: "apple-1", Email: "ana@icloud.com", GivenName: "Ana"}, nil
		})
		cred, err := p.Handshake(context.Background())
		if err != nil {
			t.Fatalf("handshake: %v", err)
		}
		if cred.Provider != core.ProviderApple || cred.Apple == nil || cred.Apple.UserID != "apple-1" {
			t.Fatalf("credential = %+v", cred)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		p := NewAppleProvider(func(ctx context.Context) (AppleCredential, error) {
			return AppleCredential{}, ErrHandshakeAborted
		})
		if _, err := p.Handshake(context.Background()); !errors.Is(err, ErrHandshakeAborted) {
			t.Fatalf("expected ErrHandshakeAborted, got %v", err)
		}
	})

	t.Run("unconfigured binding", func(t *testing.T) {
		p := NewAppleProvider(nil)
		if _, err := p.Handshake(context.Background()); err == nil {
			t.Fatal("expected error when binding missing")
		}
	})
}

func TestNormalizeApple(t *testing.T) {
	ctx := context.Background()

	t.Run("full credential", func(t *testing.T) {
		got, err := NormalizeApple(ctx, Credential{
			Provider: core.ProviderApple,
			Apple:    &AppleCredential{UserID: "apple-1", Email: "ana@icloud.com", GivenName: "Ana"},
		})
		if err != nil {
			t.Fatalf("normalize: %v", err)
		}
		if got.ID != "apple-1" || got.Email != "ana@icloud.com" || got.Name != "Ana" {
			t.Fatalf("identity = %+v", got)
		}
		if got.Photo != "https://ui-avatars.com/api/?length=1&name=Ana" {
			t.Errorf("photo = %q", got.Photo)
		}
	})

	// Repeat sign-ins on the same device omit name and email; the identity
	// must still come out displayable.
	t.Run("withheld name and email", func(t *testing.T) {
		got, err := NormalizeApple(ctx, Credential{
			Provider: core.ProviderApple,
			Apple:    &AppleCredential{UserID: "apple-1"},
		})
		if err != nil {
			t.Fatalf("normalize: %v", err)
		}
		if got.ID != "apple-1" {
			t.Errorf("id = %q", got.ID)
		}
		if got.Email != "" || got.Name != "" {
			t.Errorf("expected empty name/email, got %+v", got)
		}
		if got.Photo != "https://ui-avatars.com/api/?length=1&name=" {
			t.Errorf("photo = %q, want generated placeholder", got.Photo)
		}
	})

	t.Run("missing user id", func(t *testing.T) {
		_, err := NormalizeApple(ctx, Credential{
			Provider: core.ProviderApple,
			Apple:    &AppleCredential{GivenName: "Ana"},
		})
		if !errors.Is(err, core.ErrEmptyIdentityID) {
			t.Fatalf("expected ErrEmptyIdentityID, got %v", err)
		}
	})

	t.Run("missing payload", func(t *testing.T) {
		if _, err := NormalizeApple(ctx, Credential{Provider: core.ProviderApple}); err == nil {
			t.Fatal("expected error for empty payload")
		}
	})
}

func TestNormalizersDispatch(t *testing.T) {
	n := Normalizers{
		core.ProviderApple: NormalizeApple,
	}

	_, err := n.Normalize(context.Background(), Credential{Provider: core.ProviderGoogle})
	if !errors.Is(err, core.ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider for unregistered provider, got %v", err)
	}

	got, err := n.Normalize(context.Background(), Credential{
		Provider: core.ProviderApple,
		Apple:    &AppleCredential{UserID: "apple-9"},
	})
	if err != nil || got.ID != "apple-9" {
		t.Fatalf("dispatch = %+v, %v", got, err)
	}
}
