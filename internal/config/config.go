package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner only)
	FilePermissions = 0600
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// DefaultBaseURL is the Symanto API host
	DefaultBaseURL = "https://api.symanto.net"
	// DefaultLanguage is used when neither --lang nor the stored setting is given
	DefaultLanguage = "en"

	envConfigDir = "SYMANTO_CONFIG_DIR"
	envBaseURL   = "SYMANTO_BASE_URL"
)

var (
	// ConfigDir is the global configuration directory (~/.symanto)
	ConfigDir string

	// SettingsFile is the persisted key/value settings file
	SettingsFile string

	// DatabasePath is the SQLite database file for analysis history
	DatabasePath string

	// BaseURL is the API host requests are sent to
	BaseURL string
)

// LoadEnvFile loads variables from an env file into the process environment.
// Variables already set in the environment are not overridden.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Initialize sets up the configuration directory and resolves paths.
// It creates ~/.symanto/ (or $SYMANTO_CONFIG_DIR) if it doesn't exist
func Initialize() error {
	// .env in the working directory is optional
	_ = godotenv.Load()

	dir := os.Getenv(envConfigDir)
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".symanto")
	} else if strings.HasPrefix(dir, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, dir[2:])
	}

	ConfigDir = dir
	SettingsFile = filepath.Join(ConfigDir, "settings.json")
	DatabasePath = filepath.Join(ConfigDir, "symanto.db")

	BaseURL = strings.TrimRight(os.Getenv(envBaseURL), "/")
	if BaseURL == "" {
		BaseURL = DefaultBaseURL
	}

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	return nil
}
