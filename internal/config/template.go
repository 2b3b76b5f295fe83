package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const settingsTemplate = `# serial-logger settings
#
# The report is always written to csv_logs/. When token or channel is empty
# the Slack upload is skipped.

[slack]
# Bot token with the files:write scope
token = ""
# Channel ID, e.g. C0123456789
channel = ""
# Caption language: "en" (default) or "ja"
locale = "en"
`

// WriteTemplate writes a commented settings file to path. An existing file is
// only replaced when force is set.
func WriteTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrSettingsExist, path)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}

	// the token is a secret
	if err := os.WriteFile(path, []byte(settingsTemplate), 0o600); err != nil {
		return fmt.Errorf("write settings template: %w", err)
	}

	return nil
}
