package google

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestAuth(t *testing.T) *Auth {
	t.Helper()
	tokenFile := filepath.Join(t.TempDir(), "token.json")
	return NewAuth("client-id", "client-secret", "http://localhost:8000/auth/callback", tokenFile)
}

func TestTokenRoundTrip(t *testing.T) {
	auth := newTestAuth(t)
	assert.False(t, auth.HasToken())

	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).UTC(),
	}
	require.NoError(t, auth.SaveToken(token))
	assert.True(t, auth.HasToken())

	loaded, err := auth.LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "access", loaded.AccessToken)
	assert.Equal(t, "refresh", loaded.RefreshToken)
}

func TestDeleteToken(t *testing.T) {
	auth := newTestAuth(t)
	require.NoError(t, auth.SaveToken(&oauth2.Token{AccessToken: "access"}))
	require.True(t, auth.HasToken())

	require.NoError(t, auth.DeleteToken())
	assert.False(t, auth.HasToken())

	// Deleting again is not an error.
	assert.NoError(t, auth.DeleteToken())
}

func TestLoadTokenWithoutFile(t *testing.T) {
	auth := newTestAuth(t)
	_, err := auth.LoadToken()
	assert.Error(t, err)
}

func TestConfigCarriesScopes(t *testing.T) {
	auth := newTestAuth(t)

	cfg := auth.Config(GmailScopes...)
	assert.Equal(t, "client-id", cfg.ClientID)
	assert.Equal(t, "http://localhost:8000/auth/callback", cfg.RedirectURL)
	assert.Equal(t, GmailScopes, cfg.Scopes)

	url := cfg.AuthCodeURL("state123", oauth2.AccessTypeOffline)
	assert.Contains(t, url, "state123")
	assert.Contains(t, url, "access_type=offline")
}

func TestAllScopesCoversBothServices(t *testing.T) {
	all := AllScopes()
	for _, scope := range GmailScopes {
		assert.Contains(t, all, scope)
	}
	for _, scope := range CalendarScopes {
		assert.Contains(t, all, scope)
	}
}
