// Package config provides the earshot CLI configuration.
//
// Settings are stored as a single YAML file under
// os.UserConfigDir()/earshot/config.yaml:
//
//	~/Library/Application Support/earshot/config.yaml  (macOS)
//	~/.config/earshot/config.yaml                      (Linux)
//	%AppData%/earshot/config.yaml                      (Windows)
//
// The voiceprint secret is never stored in the file; it comes from the
// EARSHOT_VOICE_KEY environment variable.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
)

const (
	// appDir is the directory name under os.UserConfigDir().
	appDir = "earshot"

	// configFile is the settings file name inside appDir.
	configFile = "config.yaml"

	// EnvSecret is the environment variable holding the voiceprint
	// secret.
	EnvSecret = "EARSHOT_VOICE_KEY"
)

// Settings is the persisted CLI configuration. Zero values fall back
// to the pipeline defaults.
type Settings struct {
	// WakeWord is the trigger phrase (default "earshot").
	WakeWord string `yaml:"wake_word,omitempty"`

	// SampleRate is the capture rate in Hz (default 16000).
	SampleRate int `yaml:"sample_rate,omitempty"`

	// StoreBackend is "file" or "badger" (default "file").
	StoreBackend string `yaml:"store_backend,omitempty"`

	// VoiceprintPath is the voiceprint file or badger directory.
	// Defaults to <config dir>/voiceprint.
	VoiceprintPath string `yaml:"voiceprint_path,omitempty"`

	// VerifyThreshold is the minimum speaker similarity (default 0.8).
	VerifyThreshold float64 `yaml:"verify_threshold,omitempty"`

	// LocalConfidenceThreshold gates the remote transcription tier
	// (default 0.7).
	LocalConfidenceThreshold float64 `yaml:"local_confidence_threshold,omitempty"`

	// RemoteEndpoint is an optional ws(s) ASR endpoint or
	// OpenAI-compatible base URL.
	RemoteEndpoint string `yaml:"remote_endpoint,omitempty"`

	// RemoteAPIKey authenticates the OpenAI-compatible remote backend.
	RemoteAPIKey string `yaml:"remote_api_key,omitempty"`

	// SilenceAfterFrames ends a capture after this many consecutive
	// silent frames (default 30).
	SilenceAfterFrames int `yaml:"silence_after_frames,omitempty"`

	// MaxCommandSeconds bounds a single capture (default 15).
	MaxCommandSeconds int `yaml:"max_command_seconds,omitempty"`

	// StreamTimeout bounds streaming collection (default 5s).
	StreamTimeout time.Duration `yaml:"stream_timeout,omitempty"`
}

// DefaultDir returns the configuration directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(base, appDir), nil
}

// Load reads settings from the default location. A missing file yields
// empty settings, not an error.
func Load() (*Settings, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(dir, configFile))
}

// LoadFrom reads settings from an explicit file path.
func LoadFrom(path string) (*Settings, error) {
	var s Settings
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &s, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &s, nil
}

// Save writes settings to the default location, creating the directory
// as needed.
func (s *Settings) Save() error {
	dir, err := DefaultDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFile), data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Secret returns the voiceprint secret from the environment.
func Secret() string {
	return os.Getenv(EnvSecret)
}

// ResolveVoiceprintPath returns the configured voiceprint location, or
// the default under the config directory.
func (s *Settings) ResolveVoiceprintPath() (string, error) {
	if s.VoiceprintPath != "" {
		return s.VoiceprintPath, nil
	}
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "voiceprint"), nil
}
