// Package override loads the per-action override documents a provider
// places next to its project definition.
//
// Loading is deliberately forgiving about absence and strict about intent:
// a missing root, missing file, out-of-root path, or structurally wrong
// document degrades silently to the canonical empty document, while a
// requested live-export resolution that cannot complete is fatal, and an
// unresolvable substitution token discards the entire document rather than
// leaving a partially resolved one in play.
package override
