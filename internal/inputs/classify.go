package inputs

import "strings"

// phase tokens recognized by Classify, matched case-insensitively.
var phaseTokens = map[string]string{
	"_create.json":  PhaseCreate,
	"_update.json":  PhaseUpdate,
	"_invalid.json": PhaseInvalid,
}

// Classify maps a bare filename to its phase by locating the rightmost
// _<phase>.json token. Nothing else in the string participates: extraneous
// path segments, shell metacharacters or embedded null bytes elsewhere in
// the name neither match nor destabilize the classification. Names with no
// phase token classify as nothing.
func Classify(name string) (string, bool) {
	lowered := strings.ToLower(name)

	best := -1
	phase := ""
	for token, p := range phaseTokens {
		if idx := strings.LastIndex(lowered, token); idx > best {
			best = idx
			phase = p
		}
	}
	if best < 0 {
		return "", false
	}
	return phase, true
}
