package exports

import (
	"errors"
	"fmt"
	"strings"
)

// Catalog maps export names to their textual values.
type Catalog map[string]string

// ErrUnresolvedReference indicates a substitution token named an export
// that is not present in the catalog. Callers must treat the whole
// substitution pass as failed; there is no partial-success mode.
var ErrUnresolvedReference = errors.New("unresolved export reference")

// Substitute replaces every {{name}} token in template with the catalog
// value for the trimmed name. Text outside tokens is copied verbatim, as is
// any near-token whose body contains a character outside the allow-list
// (letters, digits, hyphen, colon, whitespace).
//
// A token naming an export absent from the catalog fails the entire pass
// with ErrUnresolvedReference; the token is never dropped or blanked.
//
// This is an explicit tokenizer rather than a regex or template engine so
// the character allow-list stays auditable and no expression evaluation can
// ever occur on catalog values.
func Substitute(template string, catalog Catalog) (string, error) {
	var out strings.Builder
	out.Grow(len(template))

	for i := 0; i < len(template); {
		open := strings.Index(template[i:], "{{")
		if open < 0 {
			out.WriteString(template[i:])
			break
		}
		open += i
		out.WriteString(template[i:open])

		body := open + 2
		end := body
		for end < len(template) && isNameByte(template[end]) {
			end++
		}
		if end == body || end+1 >= len(template) || template[end] != '}' || template[end+1] != '}' {
			// Not a well-formed token: emit the delimiter verbatim and
			// rescan from just past it.
			out.WriteString("{{")
			i = body
			continue
		}

		name := strings.TrimSpace(template[body:end])
		value, ok := catalog[name]
		if !ok {
			return "", fmt.Errorf("%w: export %q is not declared", ErrUnresolvedReference, name)
		}
		out.WriteString(value)
		i = end + 2
	}
	return out.String(), nil
}

// isNameByte reports whether b may appear inside a token body. The
// allow-list is intentionally narrow: export names are letters, digits,
// hyphens and colons; whitespace is tolerated as padding and trimmed before
// lookup.
func isNameByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '-' || b == ':':
		return true
	case b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v':
		return true
	}
	return false
}
