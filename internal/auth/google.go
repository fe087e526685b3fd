package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"gofinances/internal/core"
)

// GoogleConfig configures the Google OAuth provider.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string

	// RedirectPort is the loopback port receiving the OAuth callback.
	RedirectPort string

	// Overridable endpoints for tests. Empty means Google's defaults.
	AuthURL          string
	TokenURL         string
	UserInfoEndpoint string

	// Prompt surfaces the authorization URL to the user. Defaults to
	// printing it, the flow then waits for the browser redirect.
	Prompt func(authURL string)
}

// GoogleProvider signs a user in with Google: interactive authorization via a
// loopback redirect, code-for-token exchange, then a user-info fetch during
// normalization.
type GoogleProvider struct {
	cfg GoogleConfig
}

var _ Provider = (*GoogleProvider)(nil)

func NewGoogleProvider(cfg GoogleConfig) *GoogleProvider {
	if cfg.RedirectPort == "" {
		cfg.RedirectPort = "8085"
	}
	if cfg.Prompt == nil {
		cfg.Prompt = func(authURL string) {
			fmt.Printf("Open this URL to authorize:\n%s\n", authURL)
		}
	}
	return &GoogleProvider{cfg: cfg}
}

func (p *GoogleProvider) Name() core.Provider {
	return core.ProviderGoogle
}

func (p *GoogleProvider) oauthConfig() *oauth2.Config {
	endpoint := google.Endpoint
	if p.cfg.AuthURL != "" {
		endpoint.AuthURL = p.cfg.AuthURL
	}
	if p.cfg.TokenURL != "" {
		endpoint.TokenURL = p.cfg.TokenURL
	}
	return &oauth2.Config{
		ClientID:     p.cfg.ClientID,
		ClientSecret: p.cfg.ClientSecret,
		Endpoint:     endpoint,
		RedirectURL:  "http://localhost:" + p.cfg.RedirectPort + "/callback",
		Scopes:       []string{"profile", "email"},
	}
}

// Handshake runs the authorization-code flow over a loopback redirect. A
// denied consent screen or an empty code aborts; a failed token exchange is a
// provider response failure.
func (p *GoogleProvider) Handshake(ctx context.Context) (Credential, error) {
	cfg := p.oauthConfig()

	state, err := randomState()
	if err != nil {
		return Credential{}, fmt.Errorf("generate state: %w", err)
	}

	type callbackResult struct {
		code string
		err  error
	}
	resultCh := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	srv := &http.Server{Addr: ":" + p.cfg.RedirectPort, Handler: mux}
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if errStr := r.URL.Query().Get("error"); errStr != "" {
			http.Error(w, "OAuth error: "+errStr, http.StatusBadRequest)
			resultCh <- callbackResult{err: fmt.Errorf("%w: provider returned %q", ErrHandshakeAborted, errStr)}
			return
		}
		if got := r.URL.Query().Get("state"); got != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			resultCh <- callbackResult{err: fmt.Errorf("%w: state mismatch", ErrHandshakeAborted)}
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			resultCh <- callbackResult{err: fmt.Errorf("%w: empty authorization code", ErrHandshakeAborted)}
			return
		}
		fmt.Fprintln(w, "You may close this window and return to the app.")
		resultCh <- callbackResult{code: code}
	})

	go func() { _ = srv.ListenAndServe() }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	p.cfg.Prompt(cfg.AuthCodeURL(state))

	var code string
	select {
	case res := <-resultCh:
		if res.err != nil {
			return Credential{}, res.err
		}
		code = res.code
	case <-ctx.Done():
		return Credential{}, fmt.Errorf("waiting for authorization: %w", ctx.Err())
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return Credential{}, &ProviderResponseError{Provider: core.ProviderGoogle, Err: err}
	}

	slog.InfoContext(ctx, "Google handshake completed", "provider", core.ProviderGoogle)
	return Credential{
		Provider: core.ProviderGoogle,
		Google:   &GoogleCredential{AccessToken: tok.AccessToken},
	}, nil
}

// Normalize exchanges the access token for profile info via the user-info
// endpoint. The resulting identity always carries a photo URL; a placeholder
// is generated when Google supplies no picture.
func (p *GoogleProvider) Normalize(ctx context.Context, cred Credential) (core.Identity, error) {
	if cred.Google == nil || cred.Google.AccessToken == "" {
		return core.Identity{}, fmt.Errorf("missing google access token in credential")
	}

	opts := []option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cred.Google.AccessToken})),
	}
	if p.cfg.UserInfoEndpoint != "" {
		opts = append(opts, option.WithEndpoint(p.cfg.UserInfoEndpoint))
	}

	svc, err := googleoauth2.NewService(ctx, opts...)
	if err != nil {
		return core.Identity{}, &ProviderResponseError{Provider: core.ProviderGoogle, Err: fmt.Errorf("create userinfo service: %w", err)}
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return core.Identity{}, &ProviderResponseError{Provider: core.ProviderGoogle, StatusCode: apiErr.Code, Err: err}
		}
		return core.Identity{}, &ProviderResponseError{Provider: core.ProviderGoogle, Err: err}
	}

	if info.Id == "" {
		return core.Identity{}, fmt.Errorf("google userinfo: %w", core.ErrEmptyIdentityID)
	}

	photo := info.Picture
	if photo == "" {
		photo = avatarURL(info.Name)
	}

	return core.Identity{
		ID:    info.Id,
		Name:  info.Name,
		Email: info.Email,
		Photo: photo,
	}, nil
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
