package override

import (
	"path/filepath"
	"strings"
)

// Entry is one resolved override: an ordered pointer path into the handler
// request payload and the value to place there.
type Entry struct {
	Path  []string
	Value any
}

// splitPointer turns a slash-delimited pointer key into its ordered path
// segments. Keys not beginning with the delimiter are invalid; such an
// entry is dropped by the caller while its siblings survive.
func splitPointer(key string) ([]string, bool) {
	if !strings.HasPrefix(key, "/") {
		return nil, false
	}
	return strings.Split(key, "/")[1:], true
}

// containedPath joins name onto root and verifies the result still lies
// strictly within root after normalization. A path that escapes the root is
// treated exactly as "not found" by callers.
func containedPath(root, name string) (string, bool) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	joined := filepath.Join(absRoot, name)
	rel, err := filepath.Rel(absRoot, joined)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return joined, true
}
