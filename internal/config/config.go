package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

// DefaultSettingsFile is the settings file name looked up in the base directory.
const DefaultSettingsFile = "slack_settings.toml"

var ErrSettingsExist = errors.New("settings file already exists")

// ChannelConfig holds the Slack destination. Empty fields are treated as absent.
type ChannelConfig struct {
	Token   string `toml:"token"`
	Channel string `toml:"channel"`
	Locale  string `toml:"locale,omitempty"`
}

// Settings is the settings document.
type Settings struct {
	Slack ChannelConfig `toml:"slack"`
}

// Store interface for settings persistence
type Store interface {
	Load() (*Settings, error)
}

// NewStore returns a store reading the TOML document at path
func NewStore(path string) Store {
	return &fileStore{path: path}
}

type fileStore struct {
	path string
}

func (s *fileStore) Load() (*Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := toml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}

	return &settings, nil
}

// LoadChannelConfig reads the [slack] table from the settings file at path.
// Any failure is logged and yields an empty config, which disables notifications.
func LoadChannelConfig(path string, log zerolog.Logger) ChannelConfig {
	return loadChannelConfig(NewStore(path), log.With().Str("settings", path).Logger())
}

func loadChannelConfig(store Store, log zerolog.Logger) ChannelConfig {
	settings, err := store.Load()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load Slack settings")
		return ChannelConfig{}
	}

	log.Debug().Str("content", settings.Redacted()).Msg("Loaded Slack settings")

	return settings.Slack
}

// Complete reports whether both the token and the channel are set.
func (c ChannelConfig) Complete() bool {
	return c.Token != "" && c.Channel != ""
}

// Missing lists the keys that are not set.
func (c ChannelConfig) Missing() []string {
	var missing []string
	if c.Token == "" {
		missing = append(missing, "token")
	}
	if c.Channel == "" {
		missing = append(missing, "channel")
	}
	return missing
}

// Redacted renders the settings as TOML with the token masked.
func (s *Settings) Redacted() string {
	masked := *s
	masked.Slack.Token = maskSecret(s.Slack.Token)

	data, err := toml.Marshal(masked)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(data))
}

func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}

	// keep the token type prefix (xoxb-, xoxp-) visible
	if i := strings.Index(secret, "-"); i > 0 && i <= 5 {
		return secret[:i+1] + "****"
	}

	return "****"
}
