package override

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/cfncontract/harness/internal/contract"
	"github.com/cfncontract/harness/internal/exports"
)

// Field categories a hook override may address on a target.
const (
	ResourceProperties         = "resourceProperties"
	PreviousResourceProperties = "previousResourceProperties"
)

// TargetOverride holds the pointer-keyed overrides for one target resource
// type, split by field category.
type TargetOverride map[string][]Entry

// HookDocument maps every hook invocation point to its per-target
// overrides. The canonical empty document carries one empty target map per
// invocation point.
type HookDocument map[contract.HookInvocationPoint]map[string]TargetOverride

// EmptyHooks returns the canonical empty hook document.
func EmptyHooks() HookDocument {
	doc := make(HookDocument, len(contract.HookInvocationPoints()))
	for _, point := range contract.HookInvocationPoints() {
		doc[point] = map[string]TargetOverride{}
	}
	return doc
}

// LoadHooks resolves the hook override document under root. The contract is
// the same as Load with one extra nesting level: invocation point, then
// target resource type, then field category, then pointer-keyed values.
// Absence and shape failures degrade to the canonical empty document;
// substitution failures discard the whole document; fetch failures are
// fatal.
func LoadHooks(ctx context.Context, root string, src *exports.Source) (HookDocument, error) {
	doc := EmptyHooks()

	raw, ok := readRootFile(root, FileName)
	if !ok {
		return doc, nil
	}

	text, err := src.Resolve(ctx, raw)
	if err != nil {
		if errors.Is(err, exports.ErrUnresolvedReference) {
			slog.Warn("discarding hook override document", "reason", err)
			return EmptyHooks(), nil
		}
		return nil, err
	}

	var parsed map[string]map[string]map[string]map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		slog.Debug("hook override document has the wrong shape, ignoring", "path", FileName)
		return EmptyHooks(), nil
	}

	for name, targets := range parsed {
		point := contract.HookInvocationPoint(name)
		if !point.Valid() {
			continue
		}
		for targetType, categories := range targets {
			resolved := TargetOverride{}
			for category, pointers := range categories {
				if category != ResourceProperties && category != PreviousResourceProperties {
					slog.Debug("dropping hook override with unknown field category",
						"target", targetType, "category", category)
					continue
				}
				resolved[category] = resolveEntries(pointers)
			}
			if len(resolved) > 0 {
				doc[point][targetType] = resolved
			}
		}
	}
	return doc, nil
}
