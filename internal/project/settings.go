package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SettingsFile is the optional harness defaults file relative to the
// project root.
const SettingsFile = ".contract-test.yaml"

// Settings carries project-level defaults for harness invocation
// parameters. Flags given on the command line always win; settings only
// fill in what the user left unset.
type Settings struct {
	Region         string `yaml:"region,omitempty"`
	Profile        string `yaml:"profile,omitempty"`
	Endpoint       string `yaml:"endpoint,omitempty"`
	FunctionName   string `yaml:"functionName,omitempty"`
	RoleARN        string `yaml:"roleArn,omitempty"`
	EnforceTimeout int    `yaml:"enforceTimeout,omitempty"`
}

// LoadSettings reads the settings file under root. A missing file yields
// zero settings; a malformed one is an error, since the user wrote it on
// purpose.
func LoadSettings(root string) (Settings, error) {
	var s Settings
	raw, err := os.ReadFile(filepath.Join(root, SettingsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("reading %s: %w", SettingsFile, err)
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("parsing %s: %w", SettingsFile, err)
	}
	return s, nil
}
