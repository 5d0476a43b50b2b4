package google

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendarapi "google.golang.org/api/calendar/v3"
	gmailapi "google.golang.org/api/gmail/v1"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Scopes needed for Gmail and Calendar access.
var (
	GmailScopes = []string{
		"https://www.googleapis.com/auth/gmail.readonly",
		"https://www.googleapis.com/auth/gmail.send",
		"https://www.googleapis.com/auth/gmail.modify",
		"https://www.googleapis.com/auth/gmail.compose",
	}

	CalendarScopes = []string{
		"https://www.googleapis.com/auth/calendar",
		"https://www.googleapis.com/auth/calendar.events",
	}
)

// AllScopes returns the combined scope set for a single consent flow.
func AllScopes() []string {
	return append(append([]string{}, GmailScopes...), CalendarScopes...)
}

const revokeURL = "https://oauth2.googleapis.com/revoke"

// Auth holds the OAuth client configuration and the token file location.
// One token file is authoritative for all Google services.
type Auth struct {
	clientID     string
	clientSecret string
	redirectURI  string
	tokenFile    string

	mu sync.Mutex
}

func NewAuth(clientID, clientSecret, redirectURI, tokenFile string) *Auth {
	return &Auth{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		tokenFile:    tokenFile,
	}
}

// Config returns the OAuth2 configuration for the given scopes.
func (a *Auth) Config(scopes ...string) *oauth2.Config {
	if len(scopes) == 0 {
		scopes = AllScopes()
	}
	return &oauth2.Config{
		ClientID:     a.clientID,
		ClientSecret: a.clientSecret,
		RedirectURL:  a.redirectURI,
		Endpoint:     google.Endpoint,
		Scopes:       scopes,
	}
}

// SaveToken persists a token to the token file.
func (a *Auth) SaveToken(token *oauth2.Token) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if dir := filepath.Dir(a.tokenFile); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("unable to create token directory: %w", err)
		}
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("unable to marshal token: %w", err)
	}

	if err := os.WriteFile(a.tokenFile, data, 0600); err != nil {
		return fmt.Errorf("unable to write token file: %w", err)
	}
	return nil
}

// LoadToken reads the persisted token. Returns an error if none exists.
func (a *Auth) LoadToken() (*oauth2.Token, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, err := os.ReadFile(a.tokenFile)
	if err != nil {
		return nil, fmt.Errorf("no Google OAuth token found: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token file: %w", err)
	}
	return &token, nil
}

// HasToken reports whether a token file exists.
func (a *Auth) HasToken() bool {
	_, err := os.Stat(a.tokenFile)
	return err == nil
}

// DeleteToken removes the token file.
func (a *Auth) DeleteToken() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.Remove(a.tokenFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("unable to delete token file: %w", err)
	}
	return nil
}

// persistingTokenSource writes refreshed tokens back to the token file so the
// refresh survives restarts.
type persistingTokenSource struct {
	src     oauth2.TokenSource
	auth    *Auth
	current *oauth2.Token
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.current == nil || s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.auth.SaveToken(t); err != nil {
			log.Printf("[WARN] unable to persist refreshed token: %v", err)
		}
	}
	return t, nil
}

// TokenSource returns a self-refreshing token source backed by the token file.
func (a *Auth) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	token, err := a.LoadToken()
	if err != nil {
		return nil, err
	}

	conf := a.Config()
	return &persistingTokenSource{
		src:     conf.TokenSource(ctx, token),
		auth:    a,
		current: token,
	}, nil
}

// HTTPClient returns an HTTP client authenticated with the stored token.
func (a *Auth) HTTPClient(ctx context.Context) (*http.Client, error) {
	ts, err := a.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, ts), nil
}

// GmailService builds a Gmail API service from the stored credentials.
func (a *Auth) GmailService(ctx context.Context) (*gmailapi.Service, error) {
	client, err := a.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}
	srv, err := gmailapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}
	return srv, nil
}

// CalendarService builds a Calendar API service from the stored credentials.
func (a *Auth) CalendarService(ctx context.Context) (*calendarapi.Service, error) {
	client, err := a.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}
	srv, err := calendarapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Calendar service: %w", err)
	}
	return srv, nil
}

// UserInfo fetches the authenticated user's profile.
func (a *Auth) UserInfo(ctx context.Context) (*oauth2api.Userinfo, error) {
	client, err := a.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}
	srv, err := oauth2api.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create userinfo service: %w", err)
	}
	info, err := srv.Userinfo.Get().Do()
	if err != nil {
		return nil, fmt.Errorf("unable to fetch user info: %w", err)
	}
	return info, nil
}

// TokenScopes returns the scopes granted to the stored token, if recorded.
// Google returns granted scopes in the token response's "scope" extra field.
func (a *Auth) TokenScopes() []string {
	token, err := a.LoadToken()
	if err != nil {
		return nil
	}
	raw, _ := token.Extra("scope").(string)
	if raw == "" {
		return nil
	}
	return strings.Fields(raw)
}

// HasScope reports whether the stored token was granted the given scope.
// A token with no recorded scopes is assumed to cover the combined set,
// matching the single consent flow used by /auth/login?service=all.
func (a *Auth) HasScope(scope string) bool {
	scopes := a.TokenScopes()
	if scopes == nil {
		return a.HasToken()
	}
	for _, s := range scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// RevokeToken revokes the stored token with Google and deletes the token file.
func (a *Auth) RevokeToken(ctx context.Context) error {
	token, err := a.LoadToken()
	if err != nil {
		return err
	}

	form := url.Values{"token": {token.AccessToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("revoke request failed: %w", err)
	}
	defer resp.Body.Close()

	// Google returns 400 for already-revoked tokens; treat that as success
	// since the goal is to end the session either way.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("revoke request returned status %d", resp.StatusCode)
	}

	return a.DeleteToken()
}
