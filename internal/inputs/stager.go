// Package inputs stages the sequenced input fixture files a provider ships
// under its project's inputs directory.
//
// Fixtures come in triples, one file per phase, named
// inputs_<N>_<phase>.json with phase drawn from create, update and invalid.
// A triple is only usable when all three phases exist for the same sequence
// number; everything else yields no input set at all, never a partial one.
package inputs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/cfncontract/harness/internal/exports"
)

// DirName is the fixture directory relative to the project root.
const DirName = "inputs"

// Phase keys of a staged input set.
const (
	PhaseCreate  = "CREATE"
	PhaseUpdate  = "UPDATE"
	PhaseInvalid = "INVALID"
)

// Set holds the parsed payloads of a complete fixture triple, keyed by
// phase. A nil Set means no complete triple was available.
type Set map[string]any

var fileNamePattern = regexp.MustCompile(`(?i)^inputs_([1-9][0-9]*)_(create|update|invalid)\.json$`)

// Stage discovers, selects and loads an input triple from root.
//
// When seq is positive, exactly that sequence number's three phase files
// must all exist; otherwise the highest sequence number with a complete
// triple is selected. A missing directory, no complete triple, an
// unreadable or unparsable member, or an unresolved substitution reference
// anywhere in the triple voids the entire set. Only an explicit live-fetch
// failure is returned as an error.
func Stage(ctx context.Context, root string, seq int, src *exports.Source) (Set, error) {
	if root == "" {
		return nil, nil
	}
	triple := selectTriple(filepath.Join(root, DirName), seq)
	if triple == nil {
		return nil, nil
	}

	set := make(Set, len(triple))
	for phase, path := range triple {
		raw, err := os.ReadFile(path)
		if err != nil {
			slog.Debug("input fixture unreadable, voiding set", "path", path)
			return nil, nil
		}
		text, err := src.Resolve(ctx, string(raw))
		if err != nil {
			if errors.Is(err, exports.ErrUnresolvedReference) {
				slog.Warn("discarding input set", "reason", err)
				return nil, nil
			}
			return nil, err
		}
		var payload any
		if err := json.Unmarshal([]byte(text), &payload); err != nil {
			slog.Debug("input fixture is not valid JSON, voiding set", "path", path)
			return nil, nil
		}
		set[phase] = payload
	}
	return set, nil
}

// selectTriple returns the phase-to-path mapping for the chosen sequence
// number, or nil when no sequence number has all three phases.
func selectTriple(dir string, seq int) map[string]string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	bySeq := make(map[int]map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := fileNamePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		phase, ok := Classify(entry.Name())
		if !ok {
			continue
		}
		if bySeq[n] == nil {
			bySeq[n] = make(map[string]string)
		}
		bySeq[n][phase] = filepath.Join(dir, entry.Name())
	}

	if seq > 0 {
		if triple := bySeq[seq]; len(triple) == 3 {
			return triple
		}
		return nil
	}

	best := 0
	for n, triple := range bySeq {
		if len(triple) == 3 && n > best {
			best = n
		}
	}
	if best == 0 {
		return nil
	}
	return bySeq[best]
}

// String renders the phases present, for logs only.
func (s Set) String() string {
	return fmt.Sprintf("inputs(%d phases)", len(s))
}
