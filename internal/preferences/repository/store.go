package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"
)

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Store persists per-user preference documents as JSON files under a
// data directory. All operations are safe for concurrent use.
type Store struct {
	dir string
	mu  sync.Mutex
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create data directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Defaults returns a fresh preference document for a new user.
func Defaults(userID string) map[string]any {
	return map[string]any{
		"user_id":               userID,
		"created_at":            time.Now().UTC().Format(time.RFC3339),
		"theme":                 "light",
		"notifications_enabled": true,
		"email_signature":       "",
		"preferred_greeting":    "Hello",
		"creativity_level":      "balanced",
	}
}

// Get returns the stored preferences for a user, creating and persisting
// the defaults if the user has none yet.
func (s *Store) Get(userID string) (map[string]any, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.read(userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		prefs = Defaults(userID)
		if err := s.write(userID, prefs); err != nil {
			return nil, err
		}
	}
	return prefs, nil
}

// Update merges the given fields into the user's preferences and stamps
// updated_at. Unknown keys are stored as-is.
func (s *Store) Update(userID string, updates map[string]any) (map[string]any, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.read(userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		prefs = Defaults(userID)
	}

	for key, value := range updates {
		prefs[key] = value
	}
	prefs["updated_at"] = time.Now().UTC().Format(time.RFC3339)

	if err := s.write(userID, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *Store) read(userID string) (map[string]any, error) {
	data, err := os.ReadFile(s.path(userID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read preferences for %s: %w", userID, err)
	}

	var prefs map[string]any
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("unable to parse preferences for %s: %w", userID, err)
	}
	return prefs, nil
}

func (s *Store) write(userID string, prefs map[string]any) error {
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode preferences for %s: %w", userID, err)
	}
	if err := os.WriteFile(s.path(userID), data, 0o644); err != nil {
		return fmt.Errorf("unable to save preferences for %s: %w", userID, err)
	}
	return nil
}

func (s *Store) path(userID string) string {
	return filepath.Join(s.dir, userID+"_preferences.json")
}

func validateUserID(userID string) error {
	if !userIDPattern.MatchString(userID) {
		return fmt.Errorf("invalid user id %q", userID)
	}
	return nil
}
