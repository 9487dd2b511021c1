package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/upscpath/tracker-lambda/internal/config"
)

var ErrIdentityUnavailable = errors.New("identity provider unavailable")

const (
	userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

	// Transient identity errors are retried a bounded number of times
	// with a linearly increasing delay, then the caller degrades.
	identityMaxAttempts = 3
	identityRetryStep   = 500 * time.Millisecond
)

type GoogleProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// IdentityProvider is the boundary with the external identity service.
// The core only consumes a code exchange and a profile fetch.
type IdentityProvider interface {
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Profile(ctx context.Context, token *oauth2.Token) (*GoogleProfile, error)
}

type googleProvider struct {
	cfg *oauth2.Config
}

func NewGoogleProvider() IdentityProvider {
	return &googleProvider{
		cfg: &oauth2.Config{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URI"),
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (p *googleProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google code exchange: %w", err)
	}
	return token, nil
}

func (p *googleProvider) Profile(ctx context.Context, token *oauth2.Token) (*GoogleProfile, error) {
	log := config.WithContext(ctx)
	client := p.cfg.Client(ctx, token)

	var lastErr error
	for attempt := 1; attempt <= identityMaxAttempts; attempt++ {
		profile, err := fetchProfile(ctx, client)
		if err == nil {
			return profile, nil
		}
		lastErr = err
		log.WithError(err).Warnf("Userinfo fetch failed (attempt %d/%d)", attempt, identityMaxAttempts)

		if attempt < identityMaxAttempts {
			select {
			case <-time.After(time.Duration(attempt) * identityRetryStep):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrIdentityUnavailable, lastErr)
}

func fetchProfile(ctx context.Context, client *http.Client) (*GoogleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoEndpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	if profile.Email == "" {
		return nil, errors.New("userinfo response missing email")
	}
	return &profile, nil
}
