package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/cfncontract/harness/internal/contract"
)

// Naming convention of the scoped runner configuration file.
const (
	configPrefix = "pytest_"
	configSuffix = ".ini"
)

// TempConfig writes the minimal runner configuration file: the section
// header plus one registration line per known marker, and nothing
// user-sensitive. The file lives in the system temp directory with
// owner-only permissions. The returned cleanup removes it and must run on
// every exit path, including failures partway through configuration.
func TempConfig() (path string, cleanup func(), err error) {
	name := configPrefix + uuid.NewString() + configSuffix
	path = filepath.Join(os.TempDir(), name)

	if err := os.WriteFile(path, []byte(configContent()), 0o600); err != nil {
		return "", nil, fmt.Errorf("writing runner configuration: %w", err)
	}
	cleanup = func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			// Nothing actionable; the temp dir is periodically reaped.
			_ = err
		}
	}
	return path, cleanup, nil
}

func configContent() string {
	var b strings.Builder
	b.WriteString("[pytest]\n")
	b.WriteString("markers =\n")
	for _, marker := range contract.Markers() {
		fmt.Fprintf(&b, "    %s\n", marker)
	}
	return b.String()
}
