package usecase

import (
	"path/filepath"
	"testing"
	"time"

	"assistant-backend/pkg/google"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUsecase(t *testing.T) *AuthUsecase {
	t.Helper()
	auth := google.NewAuth("client-id", "client-secret", "http://localhost:8000/auth/callback", filepath.Join(t.TempDir(), "token.json"))
	return NewAuthUsecase(auth, "test-secret")
}

func TestLoginURLContainsStateAndScopes(t *testing.T) {
	u := newTestUsecase(t)

	url, err := u.LoginURL("gmail")
	require.NoError(t, err)

	assert.Contains(t, url, "accounts.google.com")
	assert.Contains(t, url, "access_type=offline")
	assert.Contains(t, url, "prompt=consent")
	assert.Contains(t, url, "gmail.readonly")
	assert.Contains(t, url, "state=")
}

func TestLoginURLRejectsUnknownService(t *testing.T) {
	u := newTestUsecase(t)

	_, err := u.LoginURL("contacts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contacts")
}

func TestStateRoundTrip(t *testing.T) {
	u := newTestUsecase(t)

	state, err := u.signState("calendar")
	require.NoError(t, err)

	service, err := u.verifyState(state)
	require.NoError(t, err)
	assert.Equal(t, "calendar", service)
}

func TestStateRejectsWrongSecret(t *testing.T) {
	u := newTestUsecase(t)
	other := NewAuthUsecase(nil, "different-secret")

	state, err := other.signState("gmail")
	require.NoError(t, err)

	_, err = u.verifyState(state)
	assert.Error(t, err)
}

func TestStateRejectsExpired(t *testing.T) {
	u := newTestUsecase(t)

	claims := stateClaims{
		Service: "gmail",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	state, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = u.verifyState(state)
	assert.Error(t, err)
}

func TestStateRejectsTampering(t *testing.T) {
	u := newTestUsecase(t)

	state, err := u.signState("gmail")
	require.NoError(t, err)

	_, err = u.verifyState(state + "x")
	assert.Error(t, err)
}

func TestScopesFor(t *testing.T) {
	scopes, err := scopesFor("all")
	require.NoError(t, err)
	assert.ElementsMatch(t, google.AllScopes(), scopes)

	scopes, err = scopesFor("")
	require.NoError(t, err)
	assert.ElementsMatch(t, google.AllScopes(), scopes)

	_, err = scopesFor("drive")
	assert.Error(t, err)
}
