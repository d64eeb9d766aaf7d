package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/studiowebux/symanto/internal/config"
	"github.com/tidwall/jsonc"
)

// Known setting keys
const (
	KeyAPIKey  = "apiKey"
	KeyLang    = "lang"
	KeyHistory = "history"
)

// ErrNotConfigured is returned when an analysis is requested without an API key
var ErrNotConfigured = errors.New("API key not set. Run: symanto config set --api-key YOUR_KEY")

// Store is a file-backed string key/value store. Every mutation is
// written to disk before returning.
type Store struct {
	path   string
	values map[string]string
}

// NewStore creates a store bound to a settings file. Call Load before use.
func NewStore(path string) *Store {
	return &Store{
		path:   path,
		values: make(map[string]string),
	}
}

// Load reads the settings file. A missing file is an empty store.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.values = make(map[string]string)
			return nil
		}
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	values := make(map[string]string)
	if len(strings.TrimSpace(string(data))) > 0 {
		// Hand-edited files may carry comments or trailing commas
		if err := json.Unmarshal(jsonc.ToJSON(data), &values); err != nil {
			return fmt.Errorf("failed to parse settings file: %w", err)
		}
	}

	s.values = values
	return nil
}

// Save writes the settings file
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), config.DirPermissions); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(s.path, data, config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Get returns a setting and whether it is present
func (s *Store) Get(key string) (string, bool) {
	value, ok := s.values[key]
	return value, ok
}

// GetOr returns a setting, or fallback when it is absent or empty
func (s *Store) GetOr(key, fallback string) string {
	if value, ok := s.values[key]; ok && value != "" {
		return value
	}
	return fallback
}

// Set stores a setting and persists the store
func (s *Store) Set(key, value string) error {
	s.values[key] = value
	return s.Save()
}

// GetAll returns a copy of every stored setting
func (s *Store) GetAll() map[string]string {
	all := make(map[string]string, len(s.values))
	for k, v := range s.values {
		all[k] = v
	}
	return all
}

// Keys returns the stored keys in sorted order
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clear removes every setting and persists the empty store
func (s *Store) Clear() error {
	s.values = make(map[string]string)
	return s.Save()
}

// IsConfigured reports whether a non-empty API key is stored
func (s *Store) IsConfigured() bool {
	value, ok := s.values[KeyAPIKey]
	return ok && value != ""
}

// APIKey returns the stored key or ErrNotConfigured
func (s *Store) APIKey() (string, error) {
	if !s.IsConfigured() {
		return "", ErrNotConfigured
	}
	return s.values[KeyAPIKey], nil
}

// IsHistoryEnabled returns whether analyses are recorded. Defaults to true.
func (s *Store) IsHistoryEnabled() bool {
	switch strings.ToLower(s.values[KeyHistory]) {
	case "off", "false", "0", "no":
		return false
	}
	return true
}

// Mask hides all but the last four characters of a secret
func Mask(value string) string {
	runes := []rune(value)
	if len(runes) > 4 {
		runes = runes[len(runes)-4:]
	}
	return "****" + string(runes)
}

// DisplayValue returns the value as shown by `config show`
func DisplayValue(key, value string) string {
	if key == KeyAPIKey {
		return Mask(value)
	}
	return value
}
