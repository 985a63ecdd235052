package override

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"sort"

	"github.com/cfncontract/harness/internal/contract"
	"github.com/cfncontract/harness/internal/exports"
)

// FileName is the override document location relative to the project root.
const FileName = "overrides.json"

// Document maps every resource action to its resolved override entries.
// The canonical empty document carries one empty entry list per action.
type Document map[contract.Action][]Entry

// Empty returns the canonical empty document.
func Empty() Document {
	doc := make(Document, len(contract.Actions()))
	for _, action := range contract.Actions() {
		doc[action] = []Entry{}
	}
	return doc
}

// Load resolves the override document under root.
//
// Absence in any form — empty root, missing file, a path that normalizes
// outside the root, or a top level that is not an object keyed by known
// actions — yields the canonical empty document and no error. When the
// source requires live resolution the raw text is substituted before
// parsing; an unresolved reference discards the whole document (fail
// closed), while a fetch failure is returned as a fatal error because the
// caller explicitly asked for live resolution.
func Load(ctx context.Context, root string, src *exports.Source) (Document, error) {
	doc := Empty()

	raw, ok := readRootFile(root, FileName)
	if !ok {
		return doc, nil
	}

	text, err := src.Resolve(ctx, raw)
	if err != nil {
		if errors.Is(err, exports.ErrUnresolvedReference) {
			slog.Warn("discarding override document", "reason", err)
			return Empty(), nil
		}
		return nil, err
	}

	var parsed map[string]map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		slog.Debug("override document is not an action-keyed object, ignoring", "path", FileName)
		return Empty(), nil
	}

	for name, pointers := range parsed {
		action := contract.Action(name)
		if !action.Valid() {
			continue
		}
		doc[action] = resolveEntries(pointers)
	}
	return doc, nil
}

// resolveEntries converts a pointer-keyed object into ordered entries.
// Keys that are not slash-delimited pointers are dropped individually;
// their siblings survive. Entries are ordered by raw key so resolution is
// deterministic.
func resolveEntries(pointers map[string]json.RawMessage) []Entry {
	keys := make([]string, 0, len(pointers))
	for key := range pointers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := []Entry{}
	for _, key := range keys {
		path, ok := splitPointer(key)
		if !ok {
			slog.Debug("dropping override with invalid pointer key", "key", key)
			continue
		}
		var value any
		if err := json.Unmarshal(pointers[key], &value); err != nil {
			slog.Debug("dropping override with unreadable value", "key", key)
			continue
		}
		entries = append(entries, Entry{Path: path, Value: value})
	}
	return entries
}

// readRootFile reads name from within root, reporting false for every
// flavor of absence.
func readRootFile(root, name string) (string, bool) {
	if root == "" {
		return "", false
	}
	path, ok := containedPath(root, name)
	if !ok {
		return "", false
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(raw), true
}
