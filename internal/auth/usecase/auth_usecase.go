package usecase

import (
	"context"
	"fmt"
	"time"

	"assistant-backend/pkg/google"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const stateTTL = 10 * time.Minute

// AuthUsecase runs the Google OAuth flow and manages the stored token.
type AuthUsecase struct {
	auth        *google.Auth
	stateSecret []byte
}

func NewAuthUsecase(auth *google.Auth, stateSecret string) *AuthUsecase {
	return &AuthUsecase{auth: auth, stateSecret: []byte(stateSecret)}
}

// scopesFor maps a service name from the login request to OAuth scopes.
func scopesFor(service string) ([]string, error) {
	switch service {
	case "gmail":
		return google.GmailScopes, nil
	case "calendar":
		return google.CalendarScopes, nil
	case "", "all":
		return google.AllScopes(), nil
	default:
		return nil, fmt.Errorf("unknown service %q, expected gmail, calendar, or all", service)
	}
}

// LoginURL returns the Google consent page URL for the requested service.
func (u *AuthUsecase) LoginURL(service string) (string, error) {
	scopes, err := scopesFor(service)
	if err != nil {
		return "", err
	}

	state, err := u.signState(service)
	if err != nil {
		return "", err
	}

	cfg := u.auth.Config(scopes...)
	return cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	), nil
}

// HandleCallback verifies the state parameter, exchanges the code, and
// persists the resulting token.
func (u *AuthUsecase) HandleCallback(ctx context.Context, state, code string) error {
	service, err := u.verifyState(state)
	if err != nil {
		return fmt.Errorf("invalid state parameter: %w", err)
	}
	if code == "" {
		return fmt.Errorf("authorization code is missing")
	}

	scopes, err := scopesFor(service)
	if err != nil {
		return err
	}

	token, err := u.auth.Config(scopes...).Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("unable to exchange authorization code: %w", err)
	}

	if err := u.auth.SaveToken(token); err != nil {
		return err
	}
	return nil
}

// Status reports whether a token is stored and which services it covers.
func (u *AuthUsecase) Status(ctx context.Context) (map[string]any, error) {
	if !u.auth.HasToken() {
		return map[string]any{
			"gmail_authenticated":    false,
			"calendar_authenticated": false,
		}, nil
	}

	status := map[string]any{
		"gmail_authenticated":    u.hasAllScopes(google.GmailScopes),
		"calendar_authenticated": u.hasAllScopes(google.CalendarScopes),
	}

	if info, err := u.auth.UserInfo(ctx); err == nil && info.Email != "" {
		status["user_info"] = map[string]any{"email": info.Email}
	}
	return status, nil
}

func (u *AuthUsecase) hasAllScopes(scopes []string) bool {
	for _, scope := range scopes {
		if !u.auth.HasScope(scope) {
			return false
		}
	}
	return true
}

// Logout revokes the stored token with Google and deletes it locally.
func (u *AuthUsecase) Logout(ctx context.Context) error {
	if !u.auth.HasToken() {
		return nil
	}
	return u.auth.RevokeToken(ctx)
}

type stateClaims struct {
	Service string `json:"service"`
	jwt.RegisteredClaims
}

func (u *AuthUsecase) signState(service string) (string, error) {
	now := time.Now()
	claims := stateClaims{
		Service: service,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
		},
	}

	state, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.stateSecret)
	if err != nil {
		return "", fmt.Errorf("unable to sign state token: %w", err)
	}
	return state, nil
}

func (u *AuthUsecase) verifyState(state string) (string, error) {
	token, err := jwt.ParseWithClaims(state, &stateClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return u.stateSecret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*stateClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("state token is not valid")
	}
	return claims.Service, nil
}
